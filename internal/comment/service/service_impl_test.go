package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/jimmyhealer/shovel-hero/internal/audit/domain"
	auditrepository "github.com/jimmyhealer/shovel-hero/internal/audit/repository"
	auditservice "github.com/jimmyhealer/shovel-hero/internal/audit/service"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	"github.com/jimmyhealer/shovel-hero/internal/comment/domain"
	commentrepository "github.com/jimmyhealer/shovel-hero/internal/comment/repository"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	demandrepository "github.com/jimmyhealer/shovel-hero/internal/demand/repository"
	"github.com/jimmyhealer/shovel-hero/internal/events"
	"github.com/jimmyhealer/shovel-hero/internal/store"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *demanddomain.Demand, *gorm.DB, *store.Notifier) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&demanddomain.Demand{}, &domain.Comment{}, &auditdomain.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(`CREATE TABLE relief_events (
		id INTEGER PRIMARY KEY,
		event_type TEXT NOT NULL,
		payload TEXT,
		dedupe_key TEXT UNIQUE,
		published BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create relief_events: %v", err)
	}

	genID, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	manual := clock.NewManual(time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC))
	notifier := store.NewNotifier()

	demands := demandrepository.Provide(db)
	demand := &demanddomain.Demand{
		ID:          genID.Generate(),
		Type:        demanddomain.TypeHuman,
		Description: "mud removal crew",
		Region:      "guangfu",
		Contact:     demanddomain.Contact{Name: "Lin", Phone: "0912345678"},
		HumanNeed:   demanddomain.HumanNeed{Required: 5},
		CreatedAt:   manual.Now(),
		UpdatedAt:   manual.Now(),
		PublishTime: manual.Now(),
	}
	if err := demands.Create(context.Background(), demand); err != nil {
		t.Fatalf("seed demand: %v", err)
	}

	svc := NewService(Params{
		Log:      zap.NewNop(),
		GenID:    genID,
		Clock:    manual,
		Comments: commentrepository.Provide(db),
		Demands:  demands,
		Notifier: notifier,
		Outbox:   events.NewOutbox(db, genID),
		Audit: auditservice.NewRecorder(auditservice.Params{
			DB:    db,
			Log:   zap.NewNop(),
			GenID: genID,
			Repo:  auditrepository.Provide(),
		}),
	}).(*Service)
	return svc, demand, db, notifier
}

func TestCreateAndListInPostingOrder(t *testing.T) {
	svc, demand, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateRequest{
		DemandID:   demand.ID,
		AuthorName: "Chen",
		Content:    "bring rubber boots",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, domain.CreateRequest{
		DemandID:   demand.ID,
		AuthorName: "Wu",
		Content:    "parking available at the school",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	comments, err := svc.ListByDemand(ctx, demand.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Fatalf("expected posting order, got %v then %v", comments[0].ID, comments[1].ID)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, demand, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{"missing demand", domain.CreateRequest{AuthorName: "Chen", Content: "hi"}, domain.ErrInvalidDemand},
		{"unknown demand", domain.CreateRequest{DemandID: 999, AuthorName: "Chen", Content: "hi"}, domain.ErrInvalidDemand},
		{"blank author", domain.CreateRequest{DemandID: demand.ID, AuthorName: "  ", Content: "hi"}, domain.ErrInvalidAuthor},
		{"blank content", domain.CreateRequest{DemandID: demand.ID, AuthorName: "Chen", Content: " "}, domain.ErrInvalidContent},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.req); err != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestRemoveHidesCommentAndSignals(t *testing.T) {
	svc, demand, db, notifier := newTestService(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, domain.CreateRequest{
		DemandID:   demand.ID,
		AuthorName: "Chen",
		Content:    "outdated info",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sub, err := notifier.Subscribe(store.Topic{Collection: store.CollectionComments, Key: demand.ID.String()})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	if err := svc.Remove(ctx, comment.ID, "admin@relief.tw"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	select {
	case <-sub.C():
	default:
		t.Fatal("expected a change signal after removal")
	}

	comments, err := svc.ListByDemand(ctx, demand.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("removed comment still listed: %+v", comments)
	}

	// The row survives for the audit trail.
	var kept domain.Comment
	if err := db.First(&kept, "id = ?", comment.ID).Error; err != nil {
		t.Fatalf("find removed row: %v", err)
	}
	if !kept.Removed || kept.RemovedBy != "admin@relief.tw" || kept.RemovedAt == nil {
		t.Fatalf("removal metadata not persisted: %+v", kept)
	}

	var auditCount int64
	if err := db.Model(&auditdomain.AuditLog{}).Where("action = ?", "comment.remove").Count(&auditCount).Error; err != nil {
		t.Fatalf("count audit rows: %v", err)
	}
	if auditCount != 1 {
		t.Fatalf("expected 1 audit row, got %d", auditCount)
	}

	if err := svc.Remove(ctx, comment.ID, "admin@relief.tw"); err != domain.ErrAlreadyRemoved {
		t.Fatalf("expected ErrAlreadyRemoved, got %v", err)
	}
	if err := svc.Remove(ctx, snowflake.ID(12345), "admin@relief.tw"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
