package tax

import (
	"github.com/staylytics/revpace/internal/tax/repository"
	"github.com/staylytics/revpace/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
