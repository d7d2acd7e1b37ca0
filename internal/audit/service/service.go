// Package service records audit log entries.
package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

// Recorder writes audit entries. Failures are logged and swallowed so audit
// plumbing never fails the primary write.
type Recorder struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewRecorder(p Params) *Recorder {
	return &Recorder{
		db:    p.DB,
		log:   p.Log.Named("audit"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Record inserts one audit entry.
func (r *Recorder) Record(ctx context.Context, actorType domain.ActorType, actor, action, targetType, targetID string, meta map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:         r.genID.Generate(),
		ActorType:  string(actorType),
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  time.Now().UTC(),
	}
	if meta != nil {
		entry.Metadata = datatypes.JSONMap(meta)
	}
	if err := r.repo.Insert(ctx, r.db, entry); err != nil {
		r.log.Warn("audit record failed",
			zap.String("action", action),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
	}
}

// List returns audit entries for admin screens.
func (r *Recorder) List(ctx context.Context, filter domain.ListFilter) ([]*domain.AuditLog, error) {
	return r.repo.List(ctx, r.db, filter)
}
