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
	"github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	demandrepository "github.com/jimmyhealer/shovel-hero/internal/demand/repository"
	"github.com/jimmyhealer/shovel-hero/internal/events"
	"github.com/jimmyhealer/shovel-hero/internal/publish"
	"github.com/jimmyhealer/shovel-hero/internal/store"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const publishDelay = 30 * time.Minute

func newTestService(t *testing.T) (*Service, *clock.Manual, *gorm.DB, *store.Notifier) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Demand{}, &auditdomain.AuditLog{}); err != nil {
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

	svc := NewService(Params{
		Log:      zap.NewNop(),
		GenID:    genID,
		Clock:    manual,
		Policy:   publish.NewPolicy(publishDelay),
		Repo:     demandrepository.Provide(db),
		Notifier: notifier,
		Outbox:   events.NewOutbox(db, genID),
		Audit: auditservice.NewRecorder(auditservice.Params{
			DB:    db,
			Log:   zap.NewNop(),
			GenID: genID,
			Repo:  auditrepository.Provide(),
		}),
	}).(*Service)
	return svc, manual, db, notifier
}

func humanRequest() domain.CreateDemandRequest {
	return domain.CreateDemandRequest{
		Type:        domain.TypeHuman,
		Title:       "mud removal crew",
		Description: "clear mud from flooded homes",
		Region:      "guangfu",
		Contact:     domain.Contact{Name: "Lin", Phone: "0912345678"},
		HumanNeed:   domain.HumanNeed{Required: 10},
	}
}

func supplyRequest() domain.CreateDemandRequest {
	return domain.CreateDemandRequest{
		Type:        domain.TypeSupply,
		Title:       "shovels needed",
		Description: "shovels for the east bank",
		Region:      "guangfu",
		Contact:     domain.Contact{Name: "Wang", Phone: "0987654321"},
		SupplyItems: []domain.SupplyItem{{ItemName: "shovel", Quantity: 20, Unit: "支"}},
	}
}

func TestCreateStampsDelayedPublishTime(t *testing.T) {
	svc, manual, _, _ := newTestService(t)
	ctx := context.Background()

	demand, err := svc.Create(ctx, humanRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := manual.Now().Add(publishDelay)
	if !demand.PublishTime.Equal(want) {
		t.Fatalf("publish time %v, want %v", demand.PublishTime, want)
	}

	published, err := svc.ListPublished(ctx, domain.PublishedFilter{})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 0 {
		t.Fatalf("demand visible before its publish time, got %d rows", len(published))
	}

	manual.Advance(publishDelay + time.Minute)
	published, err = svc.ListPublished(ctx, domain.PublishedFilter{})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 1 || published[0].ID != demand.ID {
		t.Fatalf("demand not visible after its publish time")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.CreateDemandRequest)
		want   error
	}{
		{"bad type", func(r *domain.CreateDemandRequest) { r.Type = "bulldozer" }, domain.ErrInvalidType},
		{"blank region", func(r *domain.CreateDemandRequest) { r.Region = "  " }, domain.ErrInvalidRegion},
		{"blank description", func(r *domain.CreateDemandRequest) { r.Description = "" }, domain.ErrInvalidDescription},
		{"blank contact name", func(r *domain.CreateDemandRequest) { r.Contact.Name = "" }, domain.ErrInvalidContact},
		{"bad phone", func(r *domain.CreateDemandRequest) { r.Contact.Phone = "call me" }, domain.ErrInvalidContact},
		{"bad email", func(r *domain.CreateDemandRequest) { r.Contact.Email = "not-an-email" }, domain.ErrInvalidContact},
		{"zero required", func(r *domain.CreateDemandRequest) { r.HumanNeed.Required = 0 }, domain.ErrInvalidHumanNeed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := humanRequest()
			tc.mutate(&req)
			if _, err := svc.Create(ctx, req); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	t.Run("empty supply items", func(t *testing.T) {
		req := supplyRequest()
		req.SupplyItems = nil
		if _, err := svc.Create(ctx, req); err != domain.ErrInvalidSupplyItems {
			t.Fatalf("got %v, want %v", err, domain.ErrInvalidSupplyItems)
		}
	})
	t.Run("zero quantity item", func(t *testing.T) {
		req := supplyRequest()
		req.SupplyItems[0].Quantity = 0
		if _, err := svc.Create(ctx, req); err != domain.ErrInvalidSupplyItems {
			t.Fatalf("got %v, want %v", err, domain.ErrInvalidSupplyItems)
		}
	})
}

func TestApproveRewritesPublishTime(t *testing.T) {
	svc, manual, db, notifier := newTestService(t)
	ctx := context.Background()

	demand, err := svc.Create(ctx, humanRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sub, err := notifier.Subscribe(store.Topic{Collection: store.CollectionDemands})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	manual.Advance(5 * time.Minute)
	approved, err := svc.Approve(ctx, demand.ID, "admin@shovelhero.local")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approved.PublishTime.Equal(manual.Now()) {
		t.Fatalf("approve must rewrite publish time to now, got %v", approved.PublishTime)
	}
	if approved.ApprovedAt == nil || approved.ApprovedBy != "admin@shovelhero.local" {
		t.Fatalf("approval metadata missing: %+v", approved)
	}

	select {
	case <-sub.C():
	default:
		t.Fatal("expected a demands broadcast on approval")
	}

	published, err := svc.ListPublished(ctx, domain.PublishedFilter{})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("approved demand must be visible immediately, got %d rows", len(published))
	}

	// Re-approving must not duplicate the outbox event.
	if _, err := svc.Approve(ctx, demand.ID, "admin@shovelhero.local"); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	var eventCount int64
	if err := db.Table("relief_events").Where("event_type = ?", events.EventDemandApproved).Count(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("expected 1 deduped approval event, got %d", eventCount)
	}

	var auditCount int64
	if err := db.Model(&auditdomain.AuditLog{}).Where("action = ?", "demand.approve").Count(&auditCount).Error; err != nil {
		t.Fatalf("count audit: %v", err)
	}
	if auditCount != 2 {
		t.Fatalf("expected 2 audit rows, got %d", auditCount)
	}
}

func TestRejectDeletesAndRecords(t *testing.T) {
	svc, _, db, _ := newTestService(t)
	ctx := context.Background()

	demand, err := svc.Create(ctx, supplyRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Reject(ctx, demand.ID, "admin@shovelhero.local", "duplicate report"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.Get(ctx, demand.ID); err != domain.ErrNotFound {
		t.Fatalf("rejected demand should be gone, got %v", err)
	}

	var auditCount int64
	if err := db.Model(&auditdomain.AuditLog{}).Where("action = ?", "demand.reject").Count(&auditCount).Error; err != nil {
		t.Fatalf("count audit: %v", err)
	}
	if auditCount != 1 {
		t.Fatalf("expected 1 audit row, got %d", auditCount)
	}

	if err := svc.Reject(ctx, demand.ID, "admin@shovelhero.local", "again"); err != domain.ErrNotFound {
		t.Fatalf("rejecting a missing demand should fail, got %v", err)
	}
}

func TestUpdateAppliesPatches(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	demand, err := svc.Create(ctx, humanRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "mud removal crew (east bank)"
	need := domain.HumanNeed{Required: 15, RiskNotes: "deep mud"}
	updated, err := svc.Update(ctx, demand.ID, domain.UpdateDemandRequest{
		Title:     &title,
		HumanNeed: &need,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title || updated.HumanNeed.Required != 15 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Region != demand.Region {
		t.Fatalf("untouched field changed: %q", updated.Region)
	}

	empty := "  "
	if _, err := svc.Update(ctx, demand.ID, domain.UpdateDemandRequest{Region: &empty}); err != domain.ErrInvalidRegion {
		t.Fatalf("got %v, want %v", err, domain.ErrInvalidRegion)
	}

	bad := domain.HumanNeed{Required: 0}
	if _, err := svc.Update(ctx, demand.ID, domain.UpdateDemandRequest{HumanNeed: &bad}); err != domain.ErrInvalidHumanNeed {
		t.Fatalf("got %v, want %v", err, domain.ErrInvalidHumanNeed)
	}
}
