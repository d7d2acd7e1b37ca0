// Package repository implements the fulfillment repositories on gorm.
package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	"gorm.io/gorm"
)

type applicationRepository struct {
	db *gorm.DB
}

// ProvideApplications builds the gorm-backed application repository.
func ProvideApplications(db *gorm.DB) domain.ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *domain.VolunteerApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) ListByDemand(ctx context.Context, demandID snowflake.ID) ([]domain.VolunteerApplication, error) {
	var applications []domain.VolunteerApplication
	err := r.db.WithContext(ctx).
		Where("demand_id = ?", demandID).
		Order("created_at DESC, id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) ListAll(ctx context.Context, demandID snowflake.ID) ([]domain.VolunteerApplication, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if demandID != 0 {
		query = query.Where("demand_id = ?", demandID)
	}
	var applications []domain.VolunteerApplication
	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *applicationRepository) CountVisible(ctx context.Context, demandID snowflake.ID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.VolunteerApplication{}).
		Where("demand_id = ? AND publish_time <= ?", demandID, now).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

type donationRepository struct {
	db *gorm.DB
}

// ProvideDonations builds the gorm-backed donation repository.
func ProvideDonations(db *gorm.DB) domain.DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) ListByDemand(ctx context.Context, demandID snowflake.ID) ([]domain.Donation, error) {
	var donations []domain.Donation
	err := r.db.WithContext(ctx).
		Where("demand_id = ?", demandID).
		Order("created_at DESC, id DESC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) ListAll(ctx context.Context, demandID snowflake.ID) ([]domain.Donation, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if demandID != 0 {
		query = query.Where("demand_id = ?", demandID)
	}
	var donations []domain.Donation
	if err := query.Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) ListVisibleByDemand(ctx context.Context, demandID snowflake.ID, now time.Time) ([]domain.Donation, error) {
	var donations []domain.Donation
	err := r.db.WithContext(ctx).
		Where("demand_id = ? AND publish_time <= ?", demandID, now).
		Order("created_at ASC, id ASC").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) CountVisible(ctx context.Context, demandID snowflake.ID, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Donation{}).
		Where("demand_id = ? AND publish_time <= ?", demandID, now).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
