package statistics

import (
	"github.com/jimmyhealer/shovel-hero/internal/cache"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	Clock        clock.Clock
	Applications fulfillmentdomain.ApplicationRepository
	Donations    fulfillmentdomain.DonationRepository
}

func NewService(p Params) Service {
	return &service{
		log:          p.Log.Named("statistics"),
		clock:        p.Clock,
		applications: p.Applications,
		donations:    p.Donations,
		counts:       cache.NewTTLCache[string, int64](p.Clock),
	}
}

var Module = fx.Module("statistics.service",
	fx.Provide(NewService),
)
