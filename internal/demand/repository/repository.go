// Package repository implements the demand repository on gorm.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// Provide builds the gorm-backed demand repository.
func Provide(db *gorm.DB) domain.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, demand *domain.Demand) error {
	return r.db.WithContext(ctx).Create(demand).Error
}

func (r *gormRepository) Save(ctx context.Context, demand *domain.Demand) error {
	return r.db.WithContext(ctx).Save(demand).Error
}

func (r *gormRepository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Demand{}, "id = ?", id).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Demand, error) {
	var demand domain.Demand
	err := r.db.WithContext(ctx).First(&demand, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &demand, nil
}

func (r *gormRepository) ListPublished(ctx context.Context, filter domain.PublishedFilter, now time.Time) ([]domain.Demand, error) {
	query := r.db.WithContext(ctx).
		Where("publish_time <= ?", now).
		Order("publish_time DESC, id DESC")

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var demands []domain.Demand
	if err := query.Find(&demands).Error; err != nil {
		return nil, err
	}
	return demands, nil
}

func (r *gormRepository) ListAll(ctx context.Context, filter domain.AdminFilter) ([]domain.Demand, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var demands []domain.Demand
	if err := query.Find(&demands).Error; err != nil {
		return nil, err
	}
	return demands, nil
}
