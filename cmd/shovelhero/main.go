package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/audit"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	"github.com/jimmyhealer/shovel-hero/internal/comment"
	"github.com/jimmyhealer/shovel-hero/internal/config"
	"github.com/jimmyhealer/shovel-hero/internal/demand"
	"github.com/jimmyhealer/shovel-hero/internal/events"
	"github.com/jimmyhealer/shovel-hero/internal/fulfillment"
	"github.com/jimmyhealer/shovel-hero/internal/identity"
	"github.com/jimmyhealer/shovel-hero/internal/live"
	"github.com/jimmyhealer/shovel-hero/internal/migration"
	"github.com/jimmyhealer/shovel-hero/internal/notification"
	"github.com/jimmyhealer/shovel-hero/internal/observability"
	"github.com/jimmyhealer/shovel-hero/internal/observability/logger"
	"github.com/jimmyhealer/shovel-hero/internal/publish"
	"github.com/jimmyhealer/shovel-hero/internal/seed"
	"github.com/jimmyhealer/shovel-hero/internal/server"
	"github.com/jimmyhealer/shovel-hero/internal/statistics"
	"github.com/jimmyhealer/shovel-hero/internal/store"
	"github.com/jimmyhealer/shovel-hero/pkg/db"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		store.Module,
		publish.Module,
		events.Module,
		audit.Module,
		identity.Module,

		demand.Module,
		fulfillment.Module,
		comment.Module,
		statistics.Module,
		live.Module,
		notification.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			if cfg.MigrateOnRun {
				if err := migration.Apply(context.Background(), conn); err != nil {
					return err
				}
			}
			if err := seed.EnsureAdmin(conn); err != nil {
				return err
			}
			if !cfg.IsProduction() {
				return seed.EnsureSampleDemands(conn)
			}
			return nil
		}),
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
