// Package statistics serves one-shot fulfillment counts for demand pages
// that do not hold a live subscription. Counts honor the same visibility
// predicate as the live view and sit behind a short TTL cache because they
// are hit once per page render.
package statistics

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/cache"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	"go.uber.org/zap"
)

const countTTL = 10 * time.Second

// Service answers point-in-time fulfillment counts.
type Service interface {
	CountApplications(ctx context.Context, demandID snowflake.ID) (int64, error)
	CountDonations(ctx context.Context, demandID snowflake.ID) (int64, error)
}

type service struct {
	log          *zap.Logger
	clock        clock.Clock
	applications fulfillmentdomain.ApplicationRepository
	donations    fulfillmentdomain.DonationRepository
	counts       cache.Cache[string, int64]
}

func (s *service) CountApplications(ctx context.Context, demandID snowflake.ID) (int64, error) {
	return s.count(ctx, "applications:"+demandID.String(), func(now time.Time) (int64, error) {
		return s.applications.CountVisible(ctx, demandID, now)
	})
}

func (s *service) CountDonations(ctx context.Context, demandID snowflake.ID) (int64, error) {
	return s.count(ctx, "donations:"+demandID.String(), func(now time.Time) (int64, error) {
		return s.donations.CountVisible(ctx, demandID, now)
	})
}

func (s *service) count(ctx context.Context, key string, query func(time.Time) (int64, error)) (int64, error) {
	if cached, ok := s.counts.Get(key); ok {
		return cached, nil
	}
	count, err := query(s.clock.Now())
	if err != nil {
		return 0, err
	}
	s.counts.Set(key, count, countTTL)
	return count, nil
}
