package team

import (
	"go.uber.org/fx"

	"github.com/hccdispo/dispoplan/internal/team/repository"
	"github.com/hccdispo/dispoplan/internal/team/service"
)

var Module = fx.Module("team.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
