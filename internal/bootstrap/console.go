package bootstrap

import (
	"context"

	"omnifetch/internal/api"
	"omnifetch/internal/config"
	"omnifetch/internal/console"
	"omnifetch/internal/ports"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func runBrowser(lc fx.Lifecycle, browser ports.BrowserManager, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Launching browser...")

			if err := browser.Launch(ctx); err != nil {
				logger.Error("Failed to launch browser", zap.Error(err))

				return err
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := browser.Close(ctx); err != nil {
				logger.Error("Failed to close browser", zap.Error(err))
			}

			return nil
		},
	})
}

func runAPI(lc fx.Lifecycle, server *api.Server) {
	lc.Append(fx.Hook{
		OnStart: server.Start,
		OnStop:  server.Stop,
	})
}

func runConsole(lc fx.Lifecycle, cfg *config.Config, consoleInterface *console.Interface, logger *zap.Logger) {
	if !cfg.AppConfig.Console {
		logger.Info("Console disabled, serving the HTTP API only")

		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := consoleInterface.Start(); err != nil {
					logger.Error("Console interface error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			return consoleInterface.Stop()
		},
	})
}
