package notification

import (
	"context"

	"github.com/jimmyhealer/shovel-hero/internal/config"
	"github.com/jimmyhealer/shovel-hero/internal/notification/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("notification",
	fx.Provide(repository.Provide),
	fx.Provide(NewSender),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

// NewSender picks the delivery backend from configuration.
func NewSender(cfg config.Config, log *zap.Logger) Sender {
	if cfg.Notification.WebhookURL != "" {
		return NewWebhookSender(cfg.Notification.WebhookURL, nil)
	}
	return NewLogSender(log)
}

func runWorker(lc fx.Lifecycle, worker *Worker) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
