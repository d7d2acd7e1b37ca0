// Package service implements the demand write/read paths.
package service

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/jimmyhealer/shovel-hero/internal/audit/domain"
	auditservice "github.com/jimmyhealer/shovel-hero/internal/audit/service"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	"github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	"github.com/jimmyhealer/shovel-hero/internal/events"
	"github.com/jimmyhealer/shovel-hero/internal/publish"
	"github.com/jimmyhealer/shovel-hero/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var phonePattern = regexp.MustCompile(`^[0-9\-+\s()]+$`)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Policy   publish.Policy
	Repo     domain.Repository
	Notifier *store.Notifier
	Outbox   *events.Outbox
	Audit    *auditservice.Recorder
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	policy   publish.Policy
	repo     domain.Repository
	notifier *store.Notifier
	outbox   *events.Outbox
	audit    *auditservice.Recorder
}

func NewService(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("demand.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		policy:   p.Policy,
		repo:     p.Repo,
		notifier: p.Notifier,
		outbox:   p.Outbox,
		audit:    p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDemandRequest) (*domain.Demand, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	demand := &domain.Demand{
		ID:          s.genID.Generate(),
		Type:        req.Type,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Region:      strings.TrimSpace(req.Region),
		Location:    req.Location,
		Contact:     normalizeContact(req.Contact),
		CreatedBy:   strings.TrimSpace(req.CreatedBy),
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishTime: s.policy.PublishTime(publish.KindDemand, now),
	}
	switch req.Type {
	case domain.TypeHuman:
		demand.HumanNeed = req.HumanNeed
	case domain.TypeSupply:
		demand.SupplyItems = datatypes.JSONSlice[domain.SupplyItem](req.SupplyItems)
	}

	if err := s.repo.Create(ctx, demand); err != nil {
		return nil, err
	}

	s.broadcast(demand.ID)
	if err := s.outbox.Publish(ctx, events.Event{
		Type: events.EventDemandCreated,
		Payload: events.DemandPayload{
			DemandID:   demand.ID.String(),
			DemandType: string(demand.Type),
			Region:     demand.Region,
		}.ToMap(),
	}); err != nil {
		s.log.Warn("outbox publish failed", zap.String("demand_id", demand.ID.String()), zap.Error(err))
	}

	s.log.Info("demand created",
		zap.String("demand_id", demand.ID.String()),
		zap.String("type", string(demand.Type)),
		zap.String("region", demand.Region),
		zap.Time("publish_time", demand.PublishTime),
	)
	return demand, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateDemandRequest) (*domain.Demand, error) {
	demand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		demand.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, domain.ErrInvalidDescription
		}
		demand.Description = strings.TrimSpace(*req.Description)
	}
	if req.Region != nil {
		if strings.TrimSpace(*req.Region) == "" {
			return nil, domain.ErrInvalidRegion
		}
		demand.Region = strings.TrimSpace(*req.Region)
	}
	if req.Location != nil {
		demand.Location = *req.Location
	}
	if req.Contact != nil {
		if err := validateContact(*req.Contact); err != nil {
			return nil, err
		}
		demand.Contact = normalizeContact(*req.Contact)
	}
	if req.HumanNeed != nil && demand.Type == domain.TypeHuman {
		if req.HumanNeed.Required <= 0 {
			return nil, domain.ErrInvalidHumanNeed
		}
		demand.HumanNeed = *req.HumanNeed
	}
	if req.SupplyItems != nil && demand.Type == domain.TypeSupply {
		if err := validateSupplyItems(*req.SupplyItems); err != nil {
			return nil, err
		}
		demand.SupplyItems = datatypes.JSONSlice[domain.SupplyItem](*req.SupplyItems)
	}
	demand.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, demand); err != nil {
		return nil, err
	}
	s.broadcast(demand.ID)
	return demand, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID, actor string) error {
	demand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.broadcast(id)
	s.audit.Record(ctx, auditdomain.ActorTypeAdmin, actor, "demand.delete", "demand", id.String(), map[string]any{
		"type":   string(demand.Type),
		"region": demand.Region,
	})
	return nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Demand, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ListPublished(ctx context.Context, filter domain.PublishedFilter) ([]domain.Demand, error) {
	return s.repo.ListPublished(ctx, filter, s.clock.Now())
}

func (s *Service) ListAll(ctx context.Context, filter domain.AdminFilter) ([]domain.Demand, error) {
	return s.repo.ListAll(ctx, filter)
}

func (s *Service) Approve(ctx context.Context, id snowflake.ID, approvedBy string) (*domain.Demand, error) {
	demand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Approval is a publish-time rewrite, not a status flag: once the
	// publish time is in the past the demand is immediately visible.
	now := s.clock.Now()
	demand.PublishTime = now
	demand.ApprovedAt = &now
	demand.ApprovedBy = strings.TrimSpace(approvedBy)
	demand.UpdatedAt = now

	if err := s.repo.Save(ctx, demand); err != nil {
		return nil, err
	}

	s.broadcast(demand.ID)
	if err := s.outbox.Publish(ctx, events.Event{
		Type: events.EventDemandApproved,
		Payload: events.DemandPayload{
			DemandID:   demand.ID.String(),
			DemandType: string(demand.Type),
			Region:     demand.Region,
			Actor:      demand.ApprovedBy,
		}.ToMap(),
		DedupeKey: "demand_approved:" + demand.ID.String(),
	}); err != nil {
		s.log.Warn("outbox publish failed", zap.String("demand_id", demand.ID.String()), zap.Error(err))
	}
	s.audit.Record(ctx, auditdomain.ActorTypeAdmin, demand.ApprovedBy, "demand.approve", "demand", demand.ID.String(), nil)
	return demand, nil
}

func (s *Service) Reject(ctx context.Context, id snowflake.ID, rejectedBy, reason string) error {
	demand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.broadcast(id)
	if err := s.outbox.Publish(ctx, events.Event{
		Type: events.EventDemandRejected,
		Payload: events.DemandPayload{
			DemandID:   demand.ID.String(),
			DemandType: string(demand.Type),
			Region:     demand.Region,
			Actor:      strings.TrimSpace(rejectedBy),
			Reason:     strings.TrimSpace(reason),
		}.ToMap(),
		DedupeKey: "demand_rejected:" + demand.ID.String(),
	}); err != nil {
		s.log.Warn("outbox publish failed", zap.String("demand_id", demand.ID.String()), zap.Error(err))
	}
	s.audit.Record(ctx, auditdomain.ActorTypeAdmin, rejectedBy, "demand.reject", "demand", id.String(), map[string]any{
		"reason": strings.TrimSpace(reason),
	})
	return nil
}

func (s *Service) broadcast(id snowflake.ID) {
	s.notifier.Broadcast(store.CollectionDemands, id.String())
}

func validateCreate(req domain.CreateDemandRequest) error {
	if !req.Type.Valid() {
		return domain.ErrInvalidType
	}
	if strings.TrimSpace(req.Region) == "" {
		return domain.ErrInvalidRegion
	}
	if strings.TrimSpace(req.Description) == "" {
		return domain.ErrInvalidDescription
	}
	if err := validateContact(req.Contact); err != nil {
		return err
	}
	switch req.Type {
	case domain.TypeHuman:
		if req.HumanNeed.Required <= 0 {
			return domain.ErrInvalidHumanNeed
		}
	case domain.TypeSupply:
		if err := validateSupplyItems(req.SupplyItems); err != nil {
			return err
		}
	}
	return nil
}

func validateContact(contact domain.Contact) error {
	if strings.TrimSpace(contact.Name) == "" {
		return domain.ErrInvalidContact
	}
	phone := strings.TrimSpace(contact.Phone)
	if phone == "" || !phonePattern.MatchString(phone) {
		return domain.ErrInvalidContact
	}
	email := strings.TrimSpace(contact.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.ErrInvalidContact
	}
	return nil
}

func validateSupplyItems(items []domain.SupplyItem) error {
	if len(items) == 0 {
		return domain.ErrInvalidSupplyItems
	}
	for _, item := range items {
		if strings.TrimSpace(item.ItemName) == "" || strings.TrimSpace(item.Unit) == "" {
			return domain.ErrInvalidSupplyItems
		}
		if item.Quantity <= 0 || math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0) {
			return domain.ErrInvalidSupplyItems
		}
	}
	return nil
}

func normalizeContact(contact domain.Contact) domain.Contact {
	return domain.Contact{
		Name:  strings.TrimSpace(contact.Name),
		Phone: strings.TrimSpace(contact.Phone),
		Email: strings.TrimSpace(contact.Email),
	}
}
