package notification

import (
	"context"
	"errors"
	"time"

	"github.com/jimmyhealer/shovel-hero/internal/config"
	"github.com/jimmyhealer/shovel-hero/internal/notification/domain"
	"github.com/jimmyhealer/shovel-hero/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WorkerParams struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   domain.Repository
	Sender Sender
	Config config.Config
}

// Worker drains the notification queue. One batch is claimed and marked
// inside a transaction; delivery outcomes are final, there are no retries
// beyond a fresh enqueue.
type Worker struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	sender  Sender
	cfg     config.NotificationConfig
	metrics *metrics.DispatchMetrics
}

func NewWorker(p WorkerParams) *Worker {
	return &Worker{
		db:      p.DB,
		log:     p.Log.Named("notification.worker"),
		repo:    p.Repo,
		sender:  p.Sender,
		cfg:     p.Config.Notification,
		metrics: metrics.Dispatch(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(); err != nil {
			w.log.Warn("notification dispatch run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := w.processBatch(ctx, w.cfg.BatchSize)
	return err
}

func (w *Worker) processBatch(ctx context.Context, limit int) (int, error) {
	if w.db == nil || w.repo == nil || w.sender == nil {
		return 0, errors.New("dispatch_worker_unavailable")
	}
	if limit <= 0 {
		limit = w.cfg.BatchSize
	}

	processed := 0
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := w.repo.LockQueued(ctx, tx, limit)
		if err != nil {
			return err
		}
		w.metrics.SetBacklog(int64(len(rows)))
		if len(rows) == 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, row := range rows {
			result := domain.DispatchResult{
				ID:     row.ID,
				Status: domain.StatusSent,
				SentAt: now,
			}
			if err := w.sender.Send(ctx, row); err != nil {
				message := err.Error()
				result.Status = domain.StatusFailed
				result.Error = &message
				w.log.Warn("notification delivery failed",
					zap.String("notification_id", row.ID.String()),
					zap.String("template", row.Template),
					zap.Error(err),
				)
			}
			if err := w.repo.MarkDispatched(ctx, tx, result); err != nil {
				return err
			}
			w.metrics.Dispatched(result.Status)
			processed++
		}
		return nil
	})
	if err != nil {
		return processed, err
	}
	return processed, nil
}
