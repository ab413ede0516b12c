package usecase

import (
	"omnifetch/internal/config"
	"omnifetch/internal/ports"
	"omnifetch/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Selector adapters.SelectorService
	Dataset  adapters.DatasetService
	Browser  adapters.BrowserService
}

type Params struct {
	fx.In

	Logger   *zap.Logger
	Config   *config.Config
	Browser  ports.BrowserManager
	Store    ports.DatasetStore
	Exporter ports.Exporter
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Selector: factory.CreateSelectorService(),
		Dataset:  factory.CreateDatasetService(),
		Browser:  factory.CreateBrowserService(),
	}
}
