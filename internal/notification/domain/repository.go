package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// DispatchResult records the outcome of one delivery attempt.
type DispatchResult struct {
	ID     snowflake.ID
	Status string
	Error  *string
	SentAt time.Time
}

// Repository provides enqueue, locking and update operations for the
// notification dispatch worker.
type Repository interface {
	Enqueue(ctx context.Context, db *gorm.DB, notification *Notification) error

	// LockQueued claims up to limit queued notifications for delivery.
	// Postgres uses FOR UPDATE SKIP LOCKED so concurrent workers never
	// claim the same row.
	LockQueued(ctx context.Context, db *gorm.DB, limit int) ([]Notification, error)
	MarkDispatched(ctx context.Context, db *gorm.DB, result DispatchResult) error
}
