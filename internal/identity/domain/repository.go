package domain

import (
	"context"
	"time"
)

// Repository persists admin accounts.
type Repository interface {
	Create(ctx context.Context, admin *AdminUser) error
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)
	TouchLastLogin(ctx context.Context, admin *AdminUser, at time.Time) error
}
