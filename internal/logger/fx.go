package logger

import (
	"context"

	"github.com/smallbiznis/milkledger/internal/config"
	"github.com/smallbiznis/milkledger/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFromConfig creates a zap logger from Config and replaces globals.
func NewFromConfig(appCfg config.Config) (*zap.Logger, error) {
	ctxlogger.SetServiceName(appCfg.AppName)
	return New(Options{
		ServiceName: appCfg.AppName,
		Environment: appCfg.Environment,
		Version:     appCfg.AppVersion,
		Level:       appCfg.Logger.Level,
		Format:      appCfg.Logger.Format,
		Debug:       !appCfg.IsProduction(),
	})
}

func registerHooks(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("milkledger starting")
			return nil
		},
		OnStop: func(context.Context) error {
			log.Info("milkledger stopped")
			// stdout sync fails with EINVAL on some terminals.
			_ = log.Sync()
			return nil
		},
	})
}

// Module wires the global zap logger for the application.
var Module = fx.Module("logger",
	fx.Provide(
		NewFromConfig,
	),
	fx.Invoke(registerHooks),
)
