package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PublishedFilter narrows the public demand listing.
type PublishedFilter struct {
	Type   DemandType
	Region string
	Limit  int
}

// AdminFilter narrows the admin listing; no publish gate applies.
type AdminFilter struct {
	Type DemandType
}

// Repository persists demands.
type Repository interface {
	Create(ctx context.Context, demand *Demand) error
	Save(ctx context.Context, demand *Demand) error
	Delete(ctx context.Context, id snowflake.ID) error
	FindByID(ctx context.Context, id snowflake.ID) (*Demand, error)

	// ListPublished returns demands with publish_time <= now, ordered by
	// publish_time descending with id as the deterministic tie-break.
	ListPublished(ctx context.Context, filter PublishedFilter, now time.Time) ([]Demand, error)
	ListAll(ctx context.Context, filter AdminFilter) ([]Demand, error)
}
