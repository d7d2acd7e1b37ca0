package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// CreateRequest carries a new public comment.
type CreateRequest struct {
	DemandID   snowflake.ID `json:"demandId"`
	AuthorName string       `json:"authorName"`
	Content    string       `json:"content"`
}

// Service exposes the comment operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Comment, error)
	ListByDemand(ctx context.Context, demandID snowflake.ID) ([]Comment, error)

	// Remove soft-deletes a comment on behalf of an admin actor.
	Remove(ctx context.Context, id snowflake.ID, actor string) error
}
