package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ApplicationRepository persists volunteer applications.
type ApplicationRepository interface {
	Create(ctx context.Context, application *VolunteerApplication) error
	ListByDemand(ctx context.Context, demandID snowflake.ID) ([]VolunteerApplication, error)
	ListAll(ctx context.Context, demandID snowflake.ID) ([]VolunteerApplication, error)

	// CountVisible counts applications for the demand with
	// publish_time <= now.
	CountVisible(ctx context.Context, demandID snowflake.ID, now time.Time) (int64, error)
}

// DonationRepository persists donations.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	ListByDemand(ctx context.Context, demandID snowflake.ID) ([]Donation, error)
	ListAll(ctx context.Context, demandID snowflake.ID) ([]Donation, error)

	// ListVisibleByDemand returns donations for the demand with
	// publish_time <= now, the input to the supply ledger.
	ListVisibleByDemand(ctx context.Context, demandID snowflake.ID, now time.Time) ([]Donation, error)
	CountVisible(ctx context.Context, demandID snowflake.ID, now time.Time) (int64, error)
}
