// Package observability wires logging, tracing and metrics into the fx app.
package observability

import (
	"github.com/jimmyhealer/shovel-hero/internal/config"
	"github.com/jimmyhealer/shovel-hero/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var version = "dev"

var Module = fx.Module("observability",
	fx.Provide(newTracingConfig),
	fx.Provide(tracing.NewProvider),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func newTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Tracing.Enabled,
		ServiceName:      "shovelhero",
		ServiceVersion:   version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
		ExporterProtocol: cfg.Tracing.ExporterProtocol,
		SamplingRatio:    cfg.Tracing.SamplingRatio,
	}
}
