// Package service implements the comment write/read paths.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/jimmyhealer/shovel-hero/internal/audit/domain"
	auditservice "github.com/jimmyhealer/shovel-hero/internal/audit/service"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	"github.com/jimmyhealer/shovel-hero/internal/comment/domain"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	"github.com/jimmyhealer/shovel-hero/internal/events"
	"github.com/jimmyhealer/shovel-hero/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const maxContentLength = 2000

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Comments domain.Repository
	Demands  demanddomain.Repository
	Notifier *store.Notifier
	Outbox   *events.Outbox
	Audit    *auditservice.Recorder
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	comments domain.Repository
	demands  demanddomain.Repository
	notifier *store.Notifier
	outbox   *events.Outbox
	audit    *auditservice.Recorder
}

func NewService(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("comment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		comments: p.Comments,
		demands:  p.Demands,
		notifier: p.Notifier,
		outbox:   p.Outbox,
		audit:    p.Audit,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Comment, error) {
	if req.DemandID == 0 {
		return nil, domain.ErrInvalidDemand
	}
	if _, err := s.demands.FindByID(ctx, req.DemandID); err != nil {
		if err == demanddomain.ErrNotFound {
			return nil, domain.ErrInvalidDemand
		}
		return nil, err
	}

	author := strings.TrimSpace(req.AuthorName)
	if author == "" {
		return nil, domain.ErrInvalidAuthor
	}
	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > maxContentLength {
		return nil, domain.ErrInvalidContent
	}

	comment := &domain.Comment{
		ID:         s.genID.Generate(),
		DemandID:   req.DemandID,
		AuthorName: author,
		Content:    content,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Broadcast(store.CollectionComments, req.DemandID.String())
	s.log.Info("comment posted",
		zap.String("comment_id", comment.ID.String()),
		zap.String("demand_id", req.DemandID.String()),
	)
	return comment, nil
}

func (s *Service) ListByDemand(ctx context.Context, demandID snowflake.ID) ([]domain.Comment, error) {
	return s.comments.ListByDemand(ctx, demandID)
}

func (s *Service) Remove(ctx context.Context, id snowflake.ID, actor string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.Removed {
		return domain.ErrAlreadyRemoved
	}

	now := s.clock.Now()
	comment.Removed = true
	comment.RemovedAt = &now
	comment.RemovedBy = actor
	if err := s.comments.MarkRemoved(ctx, comment); err != nil {
		return err
	}

	s.notifier.Broadcast(store.CollectionComments, comment.DemandID.String())
	if err := s.outbox.Publish(ctx, events.Event{
		Type: events.EventCommentRemoved,
		Payload: map[string]any{
			"comment_id": comment.ID.String(),
			"demand_id":  comment.DemandID.String(),
			"actor":      actor,
		},
	}); err != nil {
		s.log.Warn("outbox publish failed",
			zap.String("event_type", events.EventCommentRemoved),
			zap.String("comment_id", comment.ID.String()),
			zap.Error(err),
		)
	}
	s.audit.Record(ctx, auditdomain.ActorTypeAdmin, actor, "comment.remove", "comment", comment.ID.String(), map[string]any{
		"demand_id": comment.DemandID.String(),
	})

	s.log.Info("comment removed",
		zap.String("comment_id", comment.ID.String()),
		zap.String("actor", actor),
	)
	return nil
}
