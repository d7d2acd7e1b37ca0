package audit

import (
	"github.com/jimmyhealer/shovel-hero/internal/audit/repository"
	"github.com/jimmyhealer/shovel-hero/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewRecorder),
)
