package entity

import (
	"time"

	"omnifetch/internal/selector"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCheck   Action = "check"
	ActionScrape  Action = "scrape"
	ActionInspect Action = "inspect"
)

// ParseAction maps free-form input to an Action. Anything unknown is a check.
func ParseAction(s string) Action {
	switch Action(s) {
	case ActionScrape, ActionInspect:
		return Action(s)
	default:
		return ActionCheck
	}
}

// SelectorKind tells which engine evaluates a selector expression.
type SelectorKind string

const (
	SelectorCSS   SelectorKind = "css"
	SelectorXPath SelectorKind = "xpath"
)

type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportJSON  ExportFormat = "json"
	ExportExcel ExportFormat = "excel"
)

func (f ExportFormat) Valid() bool {
	switch f {
	case ExportCSV, ExportJSON, ExportExcel:
		return true
	default:
		return false
	}
}

// Extension is the file suffix written for the format.
func (f ExportFormat) Extension() string {
	if f == ExportExcel {
		return "xlsx"
	}

	return string(f)
}

type ElementInfo struct {
	Index      int               `json:"index"`
	Tag        string            `json:"tag"`
	Text       string            `json:"text"`
	Attributes map[string]string `json:"attributes"`
}

type CheckResult struct {
	Found    bool          `json:"found"`
	Count    int           `json:"count"`
	Selector string        `json:"selector"`
	Kind     string        `json:"kind"`
	Elements []ElementInfo `json:"elements"`
	Message  string        `json:"message"`
}

type ScrapeResult struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Preview []string `json:"data,omitempty"`
	Key     string   `json:"key,omitempty"`
	Message string   `json:"message"`
}

type Inspection struct {
	Selector  string           `json:"selector"`
	Count     int              `json:"count"`
	Preferred string           `json:"preferred"`
	Bundle    selector.Bundle  `json:"selectors"`
	Summary   selector.Summary `json:"element"`
}

type Dataset struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	Selector  string    `json:"selector"`
	URL       string    `json:"url"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

type DatasetInfo struct {
	Key       string    `json:"key"`
	Count     int       `json:"count"`
	Selector  string    `json:"selector"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		Key:       d.Key,
		Count:     len(d.Items),
		Selector:  d.Selector,
		URL:       d.URL,
		CreatedAt: d.CreatedAt,
	}
}

type ExportResult struct {
	Path   string       `json:"path"`
	Format ExportFormat `json:"format"`
	Column string       `json:"column"`
	Rows   int          `json:"rows"`
}

type PageSnapshot struct {
	URL       string
	HTML      string
	Timestamp time.Time
}
