package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/milkledger/internal/clock"
	"github.com/smallbiznis/milkledger/internal/config"
	"github.com/smallbiznis/milkledger/internal/customer"
	"github.com/smallbiznis/milkledger/internal/delivery"
	"github.com/smallbiznis/milkledger/internal/logger"
	"github.com/smallbiznis/milkledger/internal/migration"
	"github.com/smallbiznis/milkledger/internal/observability"
	"github.com/smallbiznis/milkledger/internal/report"
	"github.com/smallbiznis/milkledger/internal/server"
	"github.com/smallbiznis/milkledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Core Infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional Domains
		customer.Module,
		delivery.Module,
		report.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
