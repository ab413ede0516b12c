package usecase

import (
	"context"
	"errors"
	"fmt"

	"omnifetch/internal/entity"
	"omnifetch/internal/ports"
	"omnifetch/pkg/apperr"
	"omnifetch/pkg/logg"
	"omnifetch/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	datasetServiceName = "DatasetService"
	datasetTracer      = "usecase.dataset"

	// ExportAll selects every stored dataset for export.
	ExportAll = "all"

	exportAllColumn    = "exported_data"
	exportColumnPrefix = "extension_data_"
)

type DatasetService struct {
	logger   *zap.Logger
	store    ports.DatasetStore
	exporter ports.Exporter
	tracer   trace.Tracer
}

type DatasetServiceParams struct {
	fx.In

	Logger   *zap.Logger
	Store    ports.DatasetStore
	Exporter ports.Exporter
}

func NewDatasetService(params DatasetServiceParams) *DatasetService {
	return &DatasetService{
		logger:   params.Logger.With(zap.String(logg.Layer, datasetServiceName)),
		store:    params.Store,
		exporter: params.Exporter,
		tracer:   otel.Tracer(datasetTracer),
	}
}

func (s *DatasetService) List() []entity.DatasetInfo {
	datasets := s.store.List()
	infos := make([]entity.DatasetInfo, 0, len(datasets))

	for _, ds := range datasets {
		infos = append(infos, ds.Info())
	}

	return infos
}

func (s *DatasetService) Get(key string) (*entity.Dataset, error) {
	const op = "GetDataset"

	ds, ok := s.store.Get(key)
	if !ok {
		return nil, apperr.Wrap(op, apperr.CodeNotFound, fmt.Errorf("dataset %q not found", key), map[string]any{
			apperr.MetaReason: "dataset_not_found",
			apperr.MetaKey:    key,
		})
	}

	return ds, nil
}

// Export writes one dataset, or every dataset when target is ExportAll.
func (s *DatasetService) Export(ctx context.Context, target string, format entity.ExportFormat) (res *entity.ExportResult, err error) {
	const op = "ExportDataset"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Key, target))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("target", target),
		attribute.String("format", string(format)))
	defer func() {
		step.End(err)
	}()

	if !format.Valid() {
		return nil, apperr.InvalidReqError(op, "format", fmt.Errorf("unknown export format %q", format))
	}

	var (
		column string
		items  []string
	)

	if target == ExportAll {
		column = exportAllColumn
		for _, ds := range s.store.List() {
			items = append(items, ds.Items...)
		}
	} else {
		ds, err := s.Get(target)
		if err != nil {
			return nil, err
		}

		column = exportColumnPrefix + ds.Key
		items = ds.Items
	}

	if len(items) == 0 {
		return nil, apperr.InvalidReqError(op, "target", errors.New("no data to export"))
	}

	return s.exporter.Export(ctx, column, items, format)
}
