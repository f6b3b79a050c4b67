package planperiod

import (
	"go.uber.org/fx"

	"github.com/hccdispo/dispoplan/internal/planperiod/repository"
	"github.com/hccdispo/dispoplan/internal/planperiod/service"
)

var Module = fx.Module("planperiod.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
