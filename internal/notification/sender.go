// Package notification delivers queued contact notifications. Writes land
// in the notifications table; the worker drains it in batches and hands
// rows to a Sender.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jimmyhealer/shovel-hero/internal/notification/domain"
	"github.com/jimmyhealer/shovel-hero/internal/observability/logger"
	"github.com/jimmyhealer/shovel-hero/internal/observability/tracing"
	"go.uber.org/zap"
)

// Sender delivers one notification.
type Sender interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// LogSender writes deliveries to the log. It backs development setups and
// any deployment without a delivery webhook.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.Named("notification.sender")}
}

func (s *LogSender) Send(_ context.Context, notification domain.Notification) error {
	s.log.Info("notification delivered",
		zap.String("notification_id", notification.ID.String()),
		zap.String("to", logger.MaskEmail(notification.ToEmail)),
		zap.String("template", notification.Template),
	)
	return nil
}

// WebhookSender POSTs deliveries as JSON to a downstream delivery service
// (mail relay, LINE bot bridge).
type WebhookSender struct {
	url    string
	client *http.Client
}

func NewWebhookSender(url string, client *http.Client) *WebhookSender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookSender{url: url, client: tracing.WrapHTTPClient(client)}
}

func (s *WebhookSender) Send(ctx context.Context, notification domain.Notification) error {
	body, err := json.Marshal(map[string]any{
		"id":       notification.ID.String(),
		"to_email": notification.ToEmail,
		"template": notification.Template,
		"payload":  map[string]any(notification.Payload),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook_status_%d", resp.StatusCode)
	}
	return nil
}
