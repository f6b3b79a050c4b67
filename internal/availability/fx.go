package availability

import (
	"go.uber.org/fx"

	"github.com/hccdispo/dispoplan/internal/availability/repository"
	"github.com/hccdispo/dispoplan/internal/availability/service"
)

var Module = fx.Module("availability.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
