package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// CreateDemandRequest is the write-path input for a new demand.
type CreateDemandRequest struct {
	Type        DemandType
	Title       string
	Description string
	Region      string
	Location    Location
	Contact     Contact
	HumanNeed   HumanNeed
	SupplyItems []SupplyItem
	CreatedBy   string
}

// UpdateDemandRequest patches mutable fields; nil pointers are left as-is.
// PublishTime is deliberately absent: it only changes through Approve.
type UpdateDemandRequest struct {
	Title       *string
	Description *string
	Region      *string
	Location    *Location
	Contact     *Contact
	HumanNeed   *HumanNeed
	SupplyItems *[]SupplyItem
}

// Service is the demand write/read API used by the HTTP surface.
type Service interface {
	Create(ctx context.Context, req CreateDemandRequest) (*Demand, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateDemandRequest) (*Demand, error)
	Delete(ctx context.Context, id snowflake.ID, actor string) error
	Get(ctx context.Context, id snowflake.ID) (*Demand, error)
	ListPublished(ctx context.Context, filter PublishedFilter) ([]Demand, error)
	ListAll(ctx context.Context, filter AdminFilter) ([]Demand, error)

	// Approve rewrites the publish time to now, surfacing the demand
	// immediately.
	Approve(ctx context.Context, id snowflake.ID, approvedBy string) (*Demand, error)
	// Reject removes a pending demand and records who rejected it.
	Reject(ctx context.Context, id snowflake.ID, rejectedBy, reason string) error
}

// VisibleNow is a convenience for callers holding a loaded demand.
func (d *Demand) VisibleNow(now time.Time) bool {
	return !d.PublishTime.After(now)
}
