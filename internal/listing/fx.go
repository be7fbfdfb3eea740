package listing

import (
	"github.com/staylytics/revpace/internal/listing/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("listing",
	fx.Provide(repository.NewRepository),
)
