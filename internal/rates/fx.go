package rates

import "go.uber.org/fx"

var Module = fx.Module("rates",
	fx.Provide(NewCache),
	fx.Provide(NewFactory),
)
