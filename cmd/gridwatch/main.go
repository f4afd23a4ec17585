package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/ozwatts/gridwatch/internal/clock"
	"github.com/ozwatts/gridwatch/internal/collector"
	"github.com/ozwatts/gridwatch/internal/config"
	"github.com/ozwatts/gridwatch/internal/dams"
	"github.com/ozwatts/gridwatch/internal/electricity"
	"github.com/ozwatts/gridwatch/internal/migration"
	"github.com/ozwatts/gridwatch/internal/observability"
	"github.com/ozwatts/gridwatch/internal/seed"
	"github.com/ozwatts/gridwatch/internal/server"
	"github.com/ozwatts/gridwatch/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		electricity.Module,
		dams.Module,
		collector.Module,
		seed.Module,

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
