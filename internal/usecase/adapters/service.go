package adapters

import (
	"context"

	"omnifetch/internal/entity"
)

type SelectorService interface {
	Check(ctx context.Context, selector string) (*entity.CheckResult, error)
	Scrape(ctx context.Context, selector string) (*entity.ScrapeResult, error)
	Inspect(ctx context.Context, selector string) (*entity.Inspection, error)
	Process(ctx context.Context, selector string, action entity.Action) (any, error)
}

type DatasetService interface {
	List() []entity.DatasetInfo
	Get(key string) (*entity.Dataset, error)
	Export(ctx context.Context, target string, format entity.ExportFormat) (*entity.ExportResult, error)
}

type BrowserService interface {
	Navigate(ctx context.Context, url string) error
	IsReady() bool
}
