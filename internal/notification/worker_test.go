package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/config"
	"github.com/jimmyhealer/shovel-hero/internal/notification/domain"
	"github.com/jimmyhealer/shovel-hero/internal/notification/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingSender struct {
	sent    []string
	failFor map[string]error
}

func (s *recordingSender) Send(_ context.Context, n domain.Notification) error {
	if err, ok := s.failFor[n.ToEmail]; ok {
		return err
	}
	s.sent = append(s.sent, n.ToEmail)
	return nil
}

func newWorkerTest(t *testing.T, sender Sender) (*Worker, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	genID, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	worker := NewWorker(WorkerParams{
		DB:     db,
		Log:    zap.NewNop(),
		Repo:   repository.Provide(),
		Sender: sender,
		Config: config.Config{Notification: config.NotificationConfig{BatchSize: 10, PollInterval: time.Second}},
	})
	return worker, db, genID
}

func enqueue(t *testing.T, db *gorm.DB, genID *snowflake.Node, email string, createdAt time.Time) snowflake.ID {
	t.Helper()
	n := &domain.Notification{
		ID:        genID.Generate(),
		ToEmail:   email,
		Template:  domain.TemplateDonationReceived,
		Payload:   datatypes.JSONMap{"demand_id": "42"},
		Status:    domain.StatusQueued,
		CreatedAt: createdAt,
	}
	if err := repository.Provide().Enqueue(context.Background(), db, n); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return n.ID
}

func TestProcessBatchDispatchesInQueueOrder(t *testing.T) {
	sender := &recordingSender{}
	worker, db, genID := newWorkerTest(t, sender)

	base := time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)
	enqueue(t, db, genID, "first@relief.tw", base)
	enqueue(t, db, genID, "second@relief.tw", base.Add(time.Minute))

	processed, err := worker.processBatch(context.Background(), 10)
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if processed != 2 {
		t.Fatalf("expected 2 processed, got %d", processed)
	}
	if len(sender.sent) != 2 || sender.sent[0] != "first@relief.tw" || sender.sent[1] != "second@relief.tw" {
		t.Fatalf("expected queue order delivery, got %v", sender.sent)
	}

	var remaining int64
	if err := db.Model(&domain.Notification{}).Where("status = ?", domain.StatusQueued).Count(&remaining).Error; err != nil {
		t.Fatalf("count queued: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected drained queue, got %d queued", remaining)
	}
}

func TestDeliveryFailureIsRecordedNotRetried(t *testing.T) {
	sender := &recordingSender{failFor: map[string]error{
		"broken@relief.tw": errors.New("smtp_unreachable"),
	}}
	worker, db, genID := newWorkerTest(t, sender)

	base := time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)
	failedID := enqueue(t, db, genID, "broken@relief.tw", base)
	enqueue(t, db, genID, "fine@relief.tw", base.Add(time.Second))

	if _, err := worker.processBatch(context.Background(), 10); err != nil {
		t.Fatalf("process batch: %v", err)
	}

	var failed domain.Notification
	if err := db.First(&failed, "id = ?", failedID).Error; err != nil {
		t.Fatalf("find failed row: %v", err)
	}
	if failed.Status != domain.StatusFailed || failed.Error == nil || *failed.Error != "smtp_unreachable" {
		t.Fatalf("failure not recorded: %+v", failed)
	}

	// A later run must not pick the failed row up again.
	processed, err := worker.processBatch(context.Background(), 10)
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if processed != 0 {
		t.Fatalf("expected empty second batch, got %d", processed)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected a single successful delivery, got %v", sender.sent)
	}
}

func TestBatchLimitLeavesOverflowQueued(t *testing.T) {
	sender := &recordingSender{}
	worker, db, genID := newWorkerTest(t, sender)

	base := time.Date(2025, 10, 3, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		enqueue(t, db, genID, fmt.Sprintf("user%d@relief.tw", i), base.Add(time.Duration(i)*time.Second))
	}

	processed, err := worker.processBatch(context.Background(), 3)
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if processed != 3 {
		t.Fatalf("expected 3 processed, got %d", processed)
	}

	var queued int64
	if err := db.Model(&domain.Notification{}).Where("status = ?", domain.StatusQueued).Count(&queued).Error; err != nil {
		t.Fatalf("count queued: %v", err)
	}
	if queued != 2 {
		t.Fatalf("expected 2 still queued, got %d", queued)
	}
}
