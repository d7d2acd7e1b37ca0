// Package repository implements the notification queue on gorm.
package repository

import (
	"context"

	"github.com/jimmyhealer/shovel-hero/internal/notification/domain"
	"gorm.io/gorm"
)

type gormRepository struct{}

// Provide builds the gorm-backed notification repository.
func Provide() domain.Repository {
	return &gormRepository{}
}

func (r *gormRepository) Enqueue(ctx context.Context, db *gorm.DB, notification *domain.Notification) error {
	return db.WithContext(ctx).Create(notification).Error
}

func (r *gormRepository) LockQueued(ctx context.Context, db *gorm.DB, limit int) ([]domain.Notification, error) {
	query := `SELECT id, to_email, template, payload, status, error, created_at, sent_at
		 FROM notifications
		 WHERE status = ?
		 ORDER BY created_at ASC, id ASC`
	// sqlite has no row locks; there the enclosing transaction
	// serializes batches instead.
	if db.Dialector.Name() == "postgres" {
		query += "\n\t\t FOR UPDATE SKIP LOCKED"
	}
	query += "\n\t\t LIMIT ?"

	var rows []domain.Notification
	err := db.WithContext(ctx).Raw(query, domain.StatusQueued, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) MarkDispatched(ctx context.Context, db *gorm.DB, result domain.DispatchResult) error {
	updates := map[string]any{
		"status":  result.Status,
		"error":   result.Error,
		"sent_at": result.SentAt,
	}
	return db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", result.ID).
		Updates(updates).Error
}
