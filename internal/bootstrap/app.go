package bootstrap

import (
	"time"

	"omnifetch/internal/api"
	"omnifetch/internal/browser"
	"omnifetch/internal/config"
	"omnifetch/internal/console"
	"omnifetch/internal/dataset"
	"omnifetch/internal/ports"
	"omnifetch/internal/usecase"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

func NewApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.GetConfig,
			newLogger,
			newTraceProvider,

			fx.Annotate(browser.NewManager, fx.As(new(ports.BrowserManager))),
			fx.Annotate(dataset.NewStore, fx.As(new(ports.DatasetStore))),
			fx.Annotate(dataset.NewExporter, fx.As(new(ports.Exporter))),

			usecase.NewUsecase,

			api.NewServer,
			console.NewInterface,
		),

		fx.Invoke(
			// spans are recorded only after the global provider is installed
			func(*sdktrace.TracerProvider) {},
			runBrowser,
			runAPI,
			runConsole,
		),

		fx.StartTimeout(time.Minute),
	)
}
