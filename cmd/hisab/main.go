package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/hisab/internal/clock"
	"github.com/smallbiznis/hisab/internal/config"
	"github.com/smallbiznis/hisab/internal/migration"
	"github.com/smallbiznis/hisab/internal/server"
	"github.com/smallbiznis/hisab/pkg/db"
	"github.com/smallbiznis/hisab/pkg/log"
	"github.com/smallbiznis/hisab/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		telemetry.Module,
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
