package comment

import (
	"github.com/jimmyhealer/shovel-hero/internal/comment/repository"
	"github.com/jimmyhealer/shovel-hero/internal/comment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("comment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
