package identity

import (
	"github.com/jimmyhealer/shovel-hero/internal/identity/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("identity",
	fx.Provide(repository.Provide),
)
