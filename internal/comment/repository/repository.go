// Package repository implements the comment repository on gorm.
package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/comment/domain"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// Provide builds the gorm-backed comment repository.
func Provide(db *gorm.DB) domain.Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *gormRepository) ListByDemand(ctx context.Context, demandID snowflake.ID) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Where("demand_id = ? AND removed = ?", demandID, false).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *gormRepository) MarkRemoved(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Model(comment).Updates(map[string]any{
		"removed":    comment.Removed,
		"removed_at": comment.RemovedAt,
		"removed_by": comment.RemovedBy,
	}).Error
}
