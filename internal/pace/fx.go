package pace

import (
	"github.com/staylytics/revpace/internal/pace/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pace.service",
	fx.Provide(service.NewService),
)
