// Package config loads application configuration from the environment.
package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting for the shovel-hero backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// DatabaseURL selects postgres when set; an empty value falls back to a
	// local sqlite file, which is enough for development and tests.
	DatabaseURL  string `env:"DATABASE_URL"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"shovelhero.db"`
	MigrateOnRun bool   `env:"MIGRATE_ON_RUN" envDefault:"true"`

	// JWTSecret signs admin session tokens.
	JWTSecret  string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// DemandPublishDelay is the pending-review window before a demand
	// auto-surfaces to the public view.
	DemandPublishDelay time.Duration `env:"DEMAND_PUBLISH_DELAY" envDefault:"30m"`

	// LiveRefreshInterval bounds how stale the live demand set can get when
	// nothing is written: entities whose publish time passes are picked up on
	// the next tick.
	LiveRefreshInterval time.Duration `env:"LIVE_REFRESH_INTERVAL" envDefault:"30s"`

	// Public write endpoints are rate limited per client address.
	WriteRateLimit  int           `env:"WRITE_RATE_LIMIT" envDefault:"30"`
	WriteRateWindow time.Duration `env:"WRITE_RATE_WINDOW" envDefault:"1m"`

	Notification NotificationConfig `envPrefix:"NOTIFICATION_"`
	Tracing      TracingConfig      `envPrefix:"TRACING_"`
}

// TracingConfig controls the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled          bool    `env:"ENABLED" envDefault:"false"`
	ExporterEndpoint string  `env:"EXPORTER_ENDPOINT"`
	ExporterProtocol string  `env:"EXPORTER_PROTOCOL" envDefault:"grpc"`
	SamplingRatio    float64 `env:"SAMPLING_RATIO" envDefault:"1.0"`
}

// NotificationConfig controls the notification dispatch worker loop.
type NotificationConfig struct {
	BatchSize    int           `env:"BATCH_SIZE" envDefault:"50"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`

	// WebhookURL receives dispatched notifications as JSON POSTs. When
	// empty, deliveries are written to the log instead.
	WebhookURL string `env:"WEBHOOK_URL"`
}

// Load parses configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		c.HTTPAddr = ":8080"
	}
	if c.DemandPublishDelay <= 0 {
		c.DemandPublishDelay = 30 * time.Minute
	}
	if c.LiveRefreshInterval <= 0 {
		c.LiveRefreshInterval = 30 * time.Second
	}
	if c.WriteRateLimit <= 0 {
		c.WriteRateLimit = 30
	}
	if c.WriteRateWindow <= 0 {
		c.WriteRateWindow = time.Minute
	}
	if c.Notification.BatchSize <= 0 {
		c.Notification.BatchSize = 50
	}
	if c.Notification.PollInterval <= 0 {
		c.Notification.PollInterval = 5 * time.Second
	}
	return c
}

// IsProduction reports whether the process runs with production hardening.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}
