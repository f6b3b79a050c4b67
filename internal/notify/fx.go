package notify

import (
	"go.uber.org/fx"
)

var Module = fx.Module("notify.service",
	fx.Provide(NewService),
	fx.Provide(ProvideFireFunc),
)
