package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/cache"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	"go.uber.org/zap"
)

type countingRepo struct {
	count int64
	calls int
}

func (r *countingRepo) CountVisible(ctx context.Context, demandID snowflake.ID, now time.Time) (int64, error) {
	r.calls++
	return r.count, nil
}

func (r *countingRepo) Create(ctx context.Context, _ *fulfillmentdomain.VolunteerApplication) error {
	return nil
}

func (r *countingRepo) ListByDemand(ctx context.Context, _ snowflake.ID) ([]fulfillmentdomain.VolunteerApplication, error) {
	return nil, nil
}

func (r *countingRepo) ListAll(ctx context.Context, _ snowflake.ID) ([]fulfillmentdomain.VolunteerApplication, error) {
	return nil, nil
}

type countingDonationRepo struct {
	count int64
	calls int
}

func (r *countingDonationRepo) CountVisible(ctx context.Context, demandID snowflake.ID, now time.Time) (int64, error) {
	r.calls++
	return r.count, nil
}

func (r *countingDonationRepo) Create(ctx context.Context, _ *fulfillmentdomain.Donation) error {
	return nil
}

func (r *countingDonationRepo) ListByDemand(ctx context.Context, _ snowflake.ID) ([]fulfillmentdomain.Donation, error) {
	return nil, nil
}

func (r *countingDonationRepo) ListAll(ctx context.Context, _ snowflake.ID) ([]fulfillmentdomain.Donation, error) {
	return nil, nil
}

func (r *countingDonationRepo) ListVisibleByDemand(ctx context.Context, _ snowflake.ID, _ time.Time) ([]fulfillmentdomain.Donation, error) {
	return nil, nil
}

func newTestService(apps *countingRepo, donations *countingDonationRepo) (*service, *clock.Manual) {
	manual := clock.NewManual(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC))
	return &service{
		log:          zap.NewNop(),
		clock:        manual,
		applications: apps,
		donations:    donations,
		counts:       cache.NewTTLCache[string, int64](manual),
	}, manual
}

func TestCountsAreCachedPerDemand(t *testing.T) {
	apps := &countingRepo{count: 7}
	donations := &countingDonationRepo{count: 3}
	svc, _ := newTestService(apps, donations)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.CountApplications(ctx, snowflake.ID(1))
		if err != nil {
			t.Fatalf("count applications: %v", err)
		}
		if got != 7 {
			t.Fatalf("expected 7 applications, got %d", got)
		}
	}
	if apps.calls != 1 {
		t.Fatalf("expected a single repository hit, got %d", apps.calls)
	}

	// A different demand misses the cache.
	if _, err := svc.CountApplications(ctx, snowflake.ID(2)); err != nil {
		t.Fatalf("count applications: %v", err)
	}
	if apps.calls != 2 {
		t.Fatalf("expected a fresh repository hit for a new demand, got %d calls", apps.calls)
	}

	// Application and donation counts for the same demand are cached apart.
	got, err := svc.CountDonations(ctx, snowflake.ID(1))
	if err != nil {
		t.Fatalf("count donations: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3 donations, got %d", got)
	}
	if donations.calls != 1 {
		t.Fatalf("expected a single donation repository hit, got %d", donations.calls)
	}
}

func TestCountsExpireWithTheClock(t *testing.T) {
	apps := &countingRepo{count: 7}
	donations := &countingDonationRepo{count: 3}
	svc, manual := newTestService(apps, donations)
	ctx := context.Background()

	if _, err := svc.CountApplications(ctx, snowflake.ID(1)); err != nil {
		t.Fatalf("count applications: %v", err)
	}

	// Within the TTL window the cached value survives a clock advance.
	manual.Advance(countTTL / 2)
	if _, err := svc.CountApplications(ctx, snowflake.ID(1)); err != nil {
		t.Fatalf("count applications: %v", err)
	}
	if apps.calls != 1 {
		t.Fatalf("expected cached result inside the TTL, got %d calls", apps.calls)
	}

	manual.Advance(countTTL)
	apps.count = 9
	got, err := svc.CountApplications(ctx, snowflake.ID(1))
	if err != nil {
		t.Fatalf("count applications: %v", err)
	}
	if apps.calls != 2 {
		t.Fatalf("expected a fresh repository hit past the TTL, got %d calls", apps.calls)
	}
	if got != 9 {
		t.Fatalf("expected the refreshed count, got %d", got)
	}
}
