// Package db opens the application database connection.
package db

import (
	"strings"

	"github.com/jimmyhealer/shovel-hero/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

// Open connects to postgres when DATABASE_URL is set, otherwise to a local
// sqlite file.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	dsn := strings.TrimSpace(cfg.DatabaseURL)
	if dsn != "" {
		conn, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", zap.String("driver", "postgres"))
		return conn, nil
	}

	path := strings.TrimSpace(cfg.SQLitePath)
	if path == "" {
		path = "shovelhero.db"
	}
	conn, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}
	log.Info("database connected", zap.String("driver", "sqlite"), zap.String("path", path))
	return conn, nil
}
