package rateflow

import (
	"github.com/staylytics/revpace/internal/rateflow/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("rateflow",
	fx.Provide(repository.NewRepository),
)
