package ports

import (
	"context"

	"omnifetch/internal/entity"
)

type BrowserManager interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	Snapshot(ctx context.Context) (*entity.PageSnapshot, error)
	Highlight(ctx context.Context, selector string, kind entity.SelectorKind) (int, error)
	IsReady() bool
}

type DatasetStore interface {
	Save(selector, url string, items []string) *entity.Dataset
	Get(key string) (*entity.Dataset, bool)
	List() []*entity.Dataset
}

type Exporter interface {
	Export(ctx context.Context, column string, items []string, format entity.ExportFormat) (*entity.ExportResult, error)
}
