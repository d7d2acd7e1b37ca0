// Package service implements the fulfillment write/read paths.
package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	"github.com/jimmyhealer/shovel-hero/internal/events"
	"github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	notificationdomain "github.com/jimmyhealer/shovel-hero/internal/notification/domain"
	"github.com/jimmyhealer/shovel-hero/internal/publish"
	"github.com/jimmyhealer/shovel-hero/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Policy       publish.Policy
	Applications domain.ApplicationRepository
	Donations    domain.DonationRepository
	Demands      demanddomain.Repository
	Notifier     *store.Notifier
	Outbox       *events.Outbox
	Queue        notificationdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	policy       publish.Policy
	applications domain.ApplicationRepository
	donations    domain.DonationRepository
	demands      demanddomain.Repository
	notifier     *store.Notifier
	outbox       *events.Outbox
	queue        notificationdomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("fulfillment.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		policy:       p.Policy,
		applications: p.Applications,
		donations:    p.Donations,
		demands:      p.Demands,
		notifier:     p.Notifier,
		outbox:       p.Outbox,
		queue:        p.Queue,
	}
}

func (s *Service) CreateApplication(ctx context.Context, req domain.CreateApplicationRequest) (*domain.VolunteerApplication, error) {
	demand, err := s.referencedDemand(ctx, req.DemandID, demanddomain.TypeHuman)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Applicant.Name) == "" || strings.TrimSpace(req.Applicant.Phone) == "" {
		return nil, domain.ErrInvalidSubmitter
	}

	now := s.clock.Now()
	application := &domain.VolunteerApplication{
		ID:            s.genID.Generate(),
		DemandID:      req.DemandID,
		Applicant:     req.Applicant,
		AvailableTime: strings.TrimSpace(req.AvailableTime),
		Skills:        datatypes.JSONSlice[string](req.Skills),
		Tools:         datatypes.JSONSlice[string](req.Tools),
		Note:          strings.TrimSpace(req.Note),
		CreatedAt:     now,
		PublishTime:   s.policy.PublishTime(publish.KindVolunteerApplication, now),
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(store.CollectionVolunteerApplications, req.DemandID.String())
	s.publishEvent(ctx, events.EventApplicationReceived, events.FulfillmentPayload{
		FulfillmentID: application.ID.String(),
		DemandID:      req.DemandID.String(),
	})
	s.enqueueNotification(ctx, demand, notificationdomain.TemplateApplicationReceived, map[string]any{
		"demand_id":      req.DemandID.String(),
		"applicant_name": application.Applicant.Name,
	})

	s.log.Info("volunteer application received",
		zap.String("application_id", application.ID.String()),
		zap.String("demand_id", req.DemandID.String()),
	)
	return application, nil
}

func (s *Service) CreateDonation(ctx context.Context, req domain.CreateDonationRequest) (*domain.Donation, error) {
	demand, err := s.referencedDemand(ctx, req.DemandID, demanddomain.TypeSupply)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Donor.Name) == "" || strings.TrimSpace(req.Donor.Phone) == "" {
		return nil, domain.ErrInvalidSubmitter
	}
	itemName := strings.TrimSpace(req.ItemName)
	unit := strings.TrimSpace(req.Unit)
	if itemName == "" || unit == "" {
		return nil, domain.ErrInvalidItem
	}
	if req.Quantity <= 0 || math.IsNaN(req.Quantity) || math.IsInf(req.Quantity, 0) {
		return nil, domain.ErrInvalidQuantity
	}

	now := s.clock.Now()
	donation := &domain.Donation{
		ID:          s.genID.Generate(),
		DemandID:    req.DemandID,
		Donor:       req.Donor,
		ItemName:    itemName,
		Quantity:    req.Quantity,
		Unit:        unit,
		ETA:         strings.TrimSpace(req.ETA),
		Note:        strings.TrimSpace(req.Note),
		CreatedAt:   now,
		PublishTime: s.policy.PublishTime(publish.KindDonation, now),
	}
	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(store.CollectionDonations, req.DemandID.String())
	s.publishEvent(ctx, events.EventDonationReceived, events.FulfillmentPayload{
		FulfillmentID: donation.ID.String(),
		DemandID:      req.DemandID.String(),
		ItemName:      donation.ItemName,
		Quantity:      donation.Quantity,
		Unit:          donation.Unit,
	})
	s.enqueueNotification(ctx, demand, notificationdomain.TemplateDonationReceived, map[string]any{
		"demand_id":  req.DemandID.String(),
		"donor_name": donation.Donor.Name,
		"item_name":  donation.ItemName,
		"quantity":   donation.Quantity,
		"unit":       donation.Unit,
	})

	s.log.Info("donation received",
		zap.String("donation_id", donation.ID.String()),
		zap.String("demand_id", req.DemandID.String()),
		zap.String("item_name", donation.ItemName),
	)
	return donation, nil
}

func (s *Service) ListApplicationsByDemand(ctx context.Context, demandID snowflake.ID) ([]domain.VolunteerApplication, error) {
	return s.applications.ListByDemand(ctx, demandID)
}

func (s *Service) ListDonationsByDemand(ctx context.Context, demandID snowflake.ID) ([]domain.Donation, error) {
	return s.donations.ListByDemand(ctx, demandID)
}

func (s *Service) ListAllApplications(ctx context.Context, demandID snowflake.ID) ([]domain.VolunteerApplication, error) {
	return s.applications.ListAll(ctx, demandID)
}

func (s *Service) ListAllDonations(ctx context.Context, demandID snowflake.ID) ([]domain.Donation, error) {
	return s.donations.ListAll(ctx, demandID)
}

func (s *Service) referencedDemand(ctx context.Context, demandID snowflake.ID, want demanddomain.DemandType) (*demanddomain.Demand, error) {
	if demandID == 0 {
		return nil, domain.ErrInvalidDemand
	}
	demand, err := s.demands.FindByID(ctx, demandID)
	if err != nil {
		if err == demanddomain.ErrNotFound {
			return nil, domain.ErrInvalidDemand
		}
		return nil, err
	}
	if demand.Type != want {
		return nil, domain.ErrDemandMismatch
	}
	return demand, nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, payload events.FulfillmentPayload) {
	if err := s.outbox.Publish(ctx, events.Event{
		Type:    eventType,
		Payload: payload.ToMap(),
	}); err != nil {
		s.log.Warn("outbox publish failed",
			zap.String("event_type", eventType),
			zap.String("demand_id", payload.DemandID),
			zap.Error(err),
		)
	}
}

func (s *Service) enqueueNotification(ctx context.Context, demand *demanddomain.Demand, template string, payload map[string]any) {
	email := strings.TrimSpace(demand.Contact.Email)
	if email == "" {
		return
	}
	notification := &notificationdomain.Notification{
		ID:        s.genID.Generate(),
		ToEmail:   email,
		Template:  template,
		Payload:   datatypes.JSONMap(payload),
		Status:    notificationdomain.StatusQueued,
		CreatedAt: s.clock.Now(),
	}
	if err := s.queue.Enqueue(ctx, s.db, notification); err != nil {
		s.log.Warn("notification enqueue failed",
			zap.String("template", template),
			zap.Error(err),
		)
	}
}
