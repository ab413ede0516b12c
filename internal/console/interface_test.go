package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"omnifetch/internal/entity"
	"omnifetch/internal/selector"
	"omnifetch/internal/usecase"
	"omnifetch/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap/zaptest"
)

type fakeSelectors struct {
	found   bool
	checked []string
}

func (f *fakeSelectors) Check(_ context.Context, sel string) (*entity.CheckResult, error) {
	f.checked = append(f.checked, sel)

	if sel == "li[" {
		return nil, apperr.WrapErrorWithReason("Check", apperr.CodeInvalidSelector, "selector_compile_failed")
	}

	if !f.found {
		return &entity.CheckResult{Selector: sel, Kind: "css", Message: "element not found: " + sel}, nil
	}

	return &entity.CheckResult{
		Found:    true,
		Count:    3,
		Selector: sel,
		Kind:     "css",
		Elements: []entity.ElementInfo{{Index: 0, Tag: "li", Text: "Alpha", Attributes: map[string]string{"class": "item"}}},
		Message:  "found 3 elements",
	}, nil
}

func (f *fakeSelectors) Scrape(_ context.Context, sel string) (*entity.ScrapeResult, error) {
	return &entity.ScrapeResult{
		Success: true,
		Count:   3,
		Preview: []string{"Alpha", "Beta"},
		Key:     "scrape_101010",
		Message: "scraped 3 items into scrape_101010",
	}, nil
}

func (f *fakeSelectors) Inspect(_ context.Context, sel string) (*entity.Inspection, error) {
	id := "#main"

	return &entity.Inspection{
		Selector:  sel,
		Count:     1,
		Preferred: id,
		Bundle:    selector.Bundle{CSS: selector.CSS{ID: &id, Tag: "div", FullPath: "div#main"}},
		Summary:   selector.Summary{Tag: "div", TruncatedText: "hello"},
	}, nil
}

func (f *fakeSelectors) Process(ctx context.Context, sel string, _ entity.Action) (any, error) {
	return f.Check(ctx, sel)
}

type fakeDatasets struct {
	exported []string
}

func (f *fakeDatasets) List() []entity.DatasetInfo {
	return []entity.DatasetInfo{
		{Key: "scrape_101010", Count: 3, Selector: "li"},
		{Key: "scrape_101011", Count: 1, Selector: "h1"},
	}
}

func (f *fakeDatasets) Get(key string) (*entity.Dataset, error) {
	return &entity.Dataset{Key: key}, nil
}

func (f *fakeDatasets) Export(_ context.Context, target string, format entity.ExportFormat) (*entity.ExportResult, error) {
	f.exported = append(f.exported, target+":"+string(format))

	return &entity.ExportResult{Path: "results/out." + format.Extension(), Format: format, Rows: 3}, nil
}

type fakeBrowser struct {
	visited []string
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	f.visited = append(f.visited, url)

	return nil
}

func (f *fakeBrowser) IsReady() bool { return true }

type fakeShutdowner struct {
	calls int
}

func (f *fakeShutdowner) Shutdown(...fx.ShutdownOption) error {
	f.calls++

	return nil
}

type harness struct {
	selectors  *fakeSelectors
	datasets   *fakeDatasets
	browser    *fakeBrowser
	shutdowner *fakeShutdowner
	out        *bytes.Buffer
}

func run(t *testing.T, found bool, input string) *harness {
	t.Helper()

	h := &harness{
		selectors:  &fakeSelectors{found: found},
		datasets:   &fakeDatasets{},
		browser:    &fakeBrowser{},
		shutdowner: &fakeShutdowner{},
		out:        &bytes.Buffer{},
	}

	i := newInterface(Params{
		Logger:     zaptest.NewLogger(t),
		Usecase:    &usecase.Service{Selector: h.selectors, Dataset: h.datasets, Browser: h.browser},
		Shutdowner: h.shutdowner,
	}, strings.NewReader(input), h.out)

	require.NoError(t, i.Start())

	return h
}

func TestConsole_Check(t *testing.T) {
	h := run(t, true, "check li.item\nexit\n")

	assert.Contains(t, h.out.String(), "found 3 elements (css)")
	assert.Contains(t, h.out.String(), `<li> Alpha class="item"`)
	assert.Contains(t, h.out.String(), "... 2 more")
	assert.Equal(t, []string{"li.item"}, h.selectors.checked)
	assert.Equal(t, 1, h.shutdowner.calls)
}

func TestConsole_CheckPromptsForSelector(t *testing.T) {
	h := run(t, true, "check\ndiv > p\n")

	assert.Equal(t, []string{"div > p"}, h.selectors.checked)
	assert.Equal(t, 1, h.shutdowner.calls, "end of input shuts down")
}

func TestConsole_ScrapeAndSave(t *testing.T) {
	h := run(t, true, "scrape li\njson\nexit\n")

	out := h.out.String()
	assert.Contains(t, out, " 1. Alpha")
	assert.Contains(t, out, "... and 1 more")
	assert.Contains(t, out, "Saved 3 rows to results/out.json")
	assert.Equal(t, []string{"scrape_101010:json"}, h.datasets.exported)
}

func TestConsole_ScrapeNotFoundSkipsPrompt(t *testing.T) {
	h := run(t, false, "scrape table\nexit\n")

	assert.Contains(t, h.out.String(), "element not found: table")
	assert.Empty(t, h.datasets.exported)
}

func TestConsole_Export(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"by number", "export\n2\ncsv\n", "scrape_101011:csv"},
		{"all inline", "export all excel\n", "all:excel"},
		{"by key", "x scrape_101010 JSON\n", "scrape_101010:json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := run(t, true, tt.input)

			assert.Equal(t, []string{tt.want}, h.datasets.exported)
		})
	}
}

func TestConsole_ErrorsAreNotFatal(t *testing.T) {
	h := run(t, true, "check li[\nexport 9 csv\ncheck li\n")

	out := h.out.String()
	assert.Contains(t, out, "Error: Check: selector_compile_failed")
	assert.Contains(t, out, "Error: no dataset number 9")
	assert.Equal(t, []string{"li[", "li"}, h.selectors.checked)
}

func TestConsole_InspectAndGoto(t *testing.T) {
	h := run(t, true, "inspect #main\ngoto https://example.com\nbogus\n")

	out := h.out.String()
	assert.Contains(t, out, "preferred      #main")
	assert.Contains(t, out, "css class      -")
	assert.Contains(t, out, "Opened https://example.com")
	assert.Contains(t, out, `Unknown command "bogus"`)
	assert.Equal(t, []string{"https://example.com"}, h.browser.visited)
}
