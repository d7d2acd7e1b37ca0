package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository persists comments.
type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, id snowflake.ID) (*Comment, error)

	// ListByDemand returns non-removed comments in posting order.
	ListByDemand(ctx context.Context, demandID snowflake.ID) ([]Comment, error)
	MarkRemoved(ctx context.Context, comment *Comment) error
}
