package events

import (
	"github.com/staylytics/revpace/internal/events/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("events",
	fx.Provide(repository.NewRepository),
)
