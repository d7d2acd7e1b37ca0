package publish

import (
	"github.com/jimmyhealer/shovel-hero/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("publish",
	fx.Provide(func(cfg config.Config) Policy {
		return NewPolicy(cfg.DemandPublishDelay)
	}),
)
