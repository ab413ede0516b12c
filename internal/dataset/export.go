package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"omnifetch/internal/config"
	"omnifetch/internal/entity"
	"omnifetch/pkg/apperr"
	"omnifetch/pkg/logg"
	"omnifetch/pkg/tracing"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	exporterName   = "Exporter"
	exporterTracer = "dataset.exporter"
	sheetName      = "Sheet1"
)

type Exporter struct {
	dir    string
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

type ExporterParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewExporter(params ExporterParams) *Exporter {
	return &Exporter{
		dir:    params.Config.ScraperConfig.ResultsDir,
		logger: params.Logger.With(zap.String(logg.Layer, exporterName)),
		tracer: otel.Tracer(exporterTracer),
		now:    time.Now,
	}
}

// Export writes items as a single column named column into the results
// directory and returns where it went.
func (e *Exporter) Export(ctx context.Context, column string, items []string, format entity.ExportFormat) (res *entity.ExportResult, err error) {
	const op = "Export"
	logger := e.logger.With(zap.String(logg.Operation, op), zap.String(logg.Format, string(format)))

	ctx, step := tracing.StartSpan(ctx, e.tracer, logger, op,
		attribute.String("format", string(format)),
		attribute.Int("rows", len(items)))
	defer func() {
		step.End(err)
	}()

	if !format.Valid() {
		return nil, apperr.Wrap(op, apperr.CodeUnsupportedFormat, fmt.Errorf("unknown export format %q", format), map[string]any{
			apperr.MetaReason: "unsupported_format",
			apperr.MetaFormat: string(format),
		})
	}

	if len(items) == 0 {
		return nil, apperr.InvalidReqError(op, "items", errors.New("nothing to export"))
	}

	if err := ctx.Err(); err != nil {
		return nil, apperr.WrapWithReason(op, apperr.CodeInternal, err, "context_cancelled")
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "mkdir_failed",
			apperr.MetaStage:  apperr.StageExport,
			apperr.MetaPath:   e.dir,
		})
	}

	path := e.nextPath(format)

	switch format {
	case entity.ExportCSV:
		err = writeCSV(path, column, items)
	case entity.ExportJSON:
		err = writeJSON(path, column, items)
	case entity.ExportExcel:
		err = writeExcel(path, column, items)
	}

	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "write_failed",
			apperr.MetaStage:  apperr.StageExport,
			apperr.MetaPath:   path,
		})
	}

	logger.Info("Dataset exported", zap.String(logg.Path, path), zap.Int(logg.Count, len(items)))
	step.AddEvent("file written", attribute.String("path", path))

	return &entity.ExportResult{
		Path:   path,
		Format: format,
		Column: column,
		Rows:   len(items),
	}, nil
}

func (e *Exporter) nextPath(format entity.ExportFormat) string {
	base := filepath.Join(e.dir, keyPrefix+e.now().Format("20060102_150405"))
	ext := "." + format.Extension()

	path := base + ext
	for i := 2; fileExists(path); i++ {
		path = base + "_" + strconv.Itoa(i) + ext
	}

	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func writeCSV(path, column string, items []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)

	if err := w.Write([]string{column}); err != nil {
		return err
	}

	for _, item := range items {
		if err := w.Write([]string{item}); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func writeJSON(path, column string, items []string) error {
	records := make([]map[string]string, 0, len(items))
	for _, item := range items {
		records = append(records, map[string]string{column: item})
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func writeExcel(path, column string, items []string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetCellValue(sheetName, "A1", column); err != nil {
		return err
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetCellValue(sheetName, cell, item); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
