package demand

import (
	"github.com/jimmyhealer/shovel-hero/internal/demand/repository"
	"github.com/jimmyhealer/shovel-hero/internal/demand/service"
	"go.uber.org/fx"
)

var Module = fx.Module("demand.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
