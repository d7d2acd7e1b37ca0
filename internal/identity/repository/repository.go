// Package repository implements the admin account repository on gorm.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jimmyhealer/shovel-hero/internal/identity/domain"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// Provide builds the gorm-backed admin account repository.
func Provide(db *gorm.DB) domain.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	err := r.db.WithContext(ctx).
		First(&admin, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *gormRepository) TouchLastLogin(ctx context.Context, admin *domain.AdminUser, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(admin).
		Update("last_login_at", at).Error
}
