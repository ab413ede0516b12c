package usecase

import (
	"omnifetch/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateSelectorService() adapters.SelectorService {
	return NewSelectorService(SelectorServiceParams{
		Config:  f.deps.Config,
		Logger:  f.deps.Logger,
		Browser: f.deps.Browser,
		Store:   f.deps.Store,
	})
}

func (f *serviceFactory) CreateDatasetService() adapters.DatasetService {
	return NewDatasetService(DatasetServiceParams{
		Logger:   f.deps.Logger,
		Store:    f.deps.Store,
		Exporter: f.deps.Exporter,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Browser
}
