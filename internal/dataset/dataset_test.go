package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"omnifetch/internal/config"
	"omnifetch/internal/entity"
	"omnifetch/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
)

var fixed = time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC)

func TestStore_SaveAndList(t *testing.T) {
	store := newStoreWithClock(func() time.Time { return fixed })

	first := store.Save("li", "https://example.com", []string{"a", "b"})
	second := store.Save("p", "https://example.com", []string{"c"})
	third := store.Save("p", "https://example.com", []string{"d"})

	assert.Equal(t, "scrape_140509", first.Key)
	assert.Equal(t, "scrape_140509_2", second.Key)
	assert.Equal(t, "scrape_140509_3", third.Key)
	assert.NotEqual(t, first.ID, second.ID)

	got, ok := store.Get("scrape_140509_2")
	require.True(t, ok)
	assert.Equal(t, []string{"c"}, got.Items)

	_, ok = store.Get("scrape_000000")
	assert.False(t, ok)

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{first.Key, second.Key, third.Key}, []string{list[0].Key, list[1].Key, list[2].Key})
	assert.Equal(t, 2, list[0].Info().Count)
}

func TestStore_SaveCopiesItems(t *testing.T) {
	store := NewStore()
	items := []string{"a"}

	ds := store.Save("li", "", items)
	items[0] = "changed"

	assert.Equal(t, []string{"a"}, ds.Items)
}

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()

	e := NewExporter(ExporterParams{
		Config: &config.Config{ScraperConfig: &config.ScraperConfig{ResultsDir: filepath.Join(t.TempDir(), "results")}},
		Logger: zaptest.NewLogger(t),
	})
	e.now = func() time.Time { return fixed }

	return e
}

func TestExporter_CSV(t *testing.T) {
	e := newTestExporter(t)

	res, err := e.Export(context.Background(), "title", []string{"One", "Two, with comma"}, entity.ExportCSV)
	require.NoError(t, err)

	assert.Equal(t, "scrape_20261019_140509.csv", filepath.Base(res.Path))
	assert.Equal(t, 2, res.Rows)

	f, err := os.Open(res.Path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"title"}, {"One"}, {"Two, with comma"}}, rows)
}

func TestExporter_JSON(t *testing.T) {
	e := newTestExporter(t)

	res, err := e.Export(context.Background(), "price", []string{"10", "20"}, entity.ExportJSON)
	require.NoError(t, err)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)

	var records []map[string]string
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Equal(t, []map[string]string{{"price": "10"}, {"price": "20"}}, records)
}

func TestExporter_Excel(t *testing.T) {
	e := newTestExporter(t)

	res, err := e.Export(context.Background(), "name", []string{"Ada", "Grace"}, entity.ExportExcel)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(res.Path))

	f, err := excelize.OpenFile(res.Path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"name"}, {"Ada"}, {"Grace"}}, rows)
}

func TestExporter_SameSecondGetsSuffix(t *testing.T) {
	e := newTestExporter(t)

	first, err := e.Export(context.Background(), "c", []string{"x"}, entity.ExportJSON)
	require.NoError(t, err)

	second, err := e.Export(context.Background(), "c", []string{"y"}, entity.ExportJSON)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, "scrape_20261019_140509_2.json", filepath.Base(second.Path))
}

func TestExporter_Errors(t *testing.T) {
	e := newTestExporter(t)

	_, err := e.Export(context.Background(), "c", []string{"x"}, entity.ExportFormat("xml"))
	assert.Equal(t, apperr.CodeUnsupportedFormat, apperr.CodeOf(err))

	_, err = e.Export(context.Background(), "c", nil, entity.ExportCSV)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Export(ctx, "c", []string{"x"}, entity.ExportCSV)
	assert.Error(t, err)
}
