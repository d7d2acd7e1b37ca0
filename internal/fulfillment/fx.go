package fulfillment

import (
	"github.com/jimmyhealer/shovel-hero/internal/fulfillment/repository"
	"github.com/jimmyhealer/shovel-hero/internal/fulfillment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fulfillment.service",
	fx.Provide(repository.ProvideApplications),
	fx.Provide(repository.ProvideDonations),
	fx.Provide(service.NewService),
)
