package live

import (
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	"github.com/jimmyhealer/shovel-hero/internal/config"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	"github.com/jimmyhealer/shovel-hero/internal/observability/metrics"
	"github.com/jimmyhealer/shovel-hero/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("live",
	fx.Provide(NewFactory),
)

type FactoryParams struct {
	fx.In

	Log          *zap.Logger
	Clock        clock.Clock
	Config       config.Config
	Notifier     *store.Notifier
	Demands      demanddomain.Repository
	Applications fulfillmentdomain.ApplicationRepository
	Donations    fulfillmentdomain.DonationRepository
}

// Factory builds one orchestrator per consumer; each SSE connection owns
// its own instance and lifecycle.
type Factory struct {
	p FactoryParams
}

func NewFactory(p FactoryParams) *Factory {
	return &Factory{p: p}
}

func (f *Factory) New(onSnapshot func(Snapshot)) *Orchestrator {
	return NewOrchestrator(Options{
		Log:             f.p.Log,
		Clock:           f.p.Clock,
		Notifier:        f.p.Notifier,
		Demands:         f.p.Demands,
		Applications:    f.p.Applications,
		Donations:       f.p.Donations,
		RefreshInterval: f.p.Config.LiveRefreshInterval,
		Metrics:         metrics.LiveFeed(),
		OnSnapshot:      onSnapshot,
	})
}
