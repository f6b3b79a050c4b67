// Package observability wires logging and metrics into the fx graph.
package observability

import (
	"github.com/hccdispo/dispoplan/internal/config"
	"github.com/hccdispo/dispoplan/internal/observability/logger"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(loggerConfig),
	fx.Provide(logger.New),
)

func loggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Version:     cfg.AppVersion,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	}
}
