package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/hccdispo/dispoplan/internal/clock"
	"github.com/hccdispo/dispoplan/internal/config"
	"github.com/hccdispo/dispoplan/internal/migration"
	"github.com/hccdispo/dispoplan/internal/observability"
	"github.com/hccdispo/dispoplan/internal/server"
	"github.com/hccdispo/dispoplan/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
