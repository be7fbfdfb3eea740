package booking

import (
	"github.com/staylytics/revpace/internal/booking/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("booking",
	fx.Provide(repository.NewRepository),
)
