package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/fiscalgate/internal/clock"
	"github.com/smallbiznis/fiscalgate/internal/config"
	"github.com/smallbiznis/fiscalgate/internal/logger"
	"github.com/smallbiznis/fiscalgate/internal/migration"
	"github.com/smallbiznis/fiscalgate/internal/processing"
	"github.com/smallbiznis/fiscalgate/internal/provider"
	"github.com/smallbiznis/fiscalgate/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Functional domains
		provider.Module,
		processing.Module,
		migration.Module,
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
