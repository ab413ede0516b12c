package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"omnifetch/internal/config"
	"omnifetch/internal/dom"
	"omnifetch/internal/entity"
	"omnifetch/internal/matcher"
	"omnifetch/internal/ports"
	"omnifetch/internal/selector"
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
	selectorServiceName = "SelectorService"
	selectorTracer      = "usecase.selector"
)

var previewAttributes = []string{"class", "id", "href"}

type SelectorService struct {
	config  *config.ScraperConfig
	logger  *zap.Logger
	browser ports.BrowserManager
	store   ports.DatasetStore
	tracer  trace.Tracer
}

type SelectorServiceParams struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Browser ports.BrowserManager
	Store   ports.DatasetStore
}

func NewSelectorService(params SelectorServiceParams) *SelectorService {
	return &SelectorService{
		config:  params.Config.ScraperConfig,
		logger:  params.Logger.With(zap.String(logg.Layer, selectorServiceName)),
		browser: params.Browser,
		store:   params.Store,
		tracer:  otel.Tracer(selectorTracer),
	}
}

// Process dispatches one API request. Unknown actions were already mapped
// to a check by entity.ParseAction.
func (s *SelectorService) Process(ctx context.Context, sel string, action entity.Action) (any, error) {
	switch action {
	case entity.ActionScrape:
		return s.Scrape(ctx, sel)
	case entity.ActionInspect:
		return s.Inspect(ctx, sel)
	default:
		return s.Check(ctx, sel)
	}
}

// Check reports how many elements sel matches on the current page, previews
// the first few and outlines them in the browser.
func (s *SelectorService) Check(ctx context.Context, sel string) (res *entity.CheckResult, err error) {
	const op = "Check"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, sel))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("selector", sel))
	defer func() {
		step.End(err)
	}()

	_, match, err := s.match(ctx, op, sel)
	if err != nil {
		return nil, err
	}

	res = &entity.CheckResult{
		Found:    match.Len() > 0,
		Count:    match.Len(),
		Selector: sel,
		Kind:     string(match.Kind),
		Elements: s.preview(match),
	}

	step.SetAttributes(attribute.Int("count", res.Count))

	if !res.Found {
		res.Message = "element not found: " + sel
		logger.Info("No elements matched")

		return res, nil
	}

	res.Message = fmt.Sprintf("found %d elements", res.Count)
	s.highlight(ctx, logger, match)

	logger.Info("Elements matched", zap.String(logg.Kind, res.Kind), zap.Int(logg.Count, res.Count))

	return res, nil
}

// Scrape stores the non-empty texts of every match as a new dataset.
func (s *SelectorService) Scrape(ctx context.Context, sel string) (res *entity.ScrapeResult, err error) {
	const op = "Scrape"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, sel))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("selector", sel))
	defer func() {
		step.End(err)
	}()

	snap, match, err := s.match(ctx, op, sel)
	if err != nil {
		return nil, err
	}

	texts := matcher.Texts(match)
	if len(texts) == 0 {
		logger.Info("Nothing to scrape", zap.Int(logg.Count, match.Len()))

		message := "element not found: " + sel
		if match.Len() > 0 {
			message = fmt.Sprintf("%d elements matched but none has text", match.Len())
		}

		return &entity.ScrapeResult{
			Success: false,
			Message: message,
		}, nil
	}

	ds := s.store.Save(sel, snap.URL, texts)

	step.AddEvent("dataset stored", attribute.String("key", ds.Key))
	logger.Info("Dataset stored", zap.String(logg.Key, ds.Key), zap.Int(logg.Count, len(texts)))

	return &entity.ScrapeResult{
		Success: true,
		Count:   len(texts),
		Preview: head(texts, s.config.ScrapePreview),
		Key:     ds.Key,
		Message: fmt.Sprintf("scraped %d items into %s", len(texts), ds.Key),
	}, nil
}

// Inspect builds every candidate selector for the first element sel matches.
func (s *SelectorService) Inspect(ctx context.Context, sel string) (res *entity.Inspection, err error) {
	const op = "Inspect"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, sel))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("selector", sel))
	defer func() {
		step.End(err)
	}()

	_, match, err := s.match(ctx, op, sel)
	if err != nil {
		return nil, err
	}

	if match.Len() == 0 {
		return nil, apperr.Wrap(op, apperr.CodeNotFound, errors.New("element not found: "+sel), map[string]any{
			apperr.MetaReason:   "no_match",
			apperr.MetaStage:    apperr.StageGeneration,
			apperr.MetaSelector: sel,
		})
	}

	node := dom.FromHTML(match.Nodes()[0])
	bundle := selector.Generate(node)

	res = &entity.Inspection{
		Selector:  sel,
		Count:     match.Len(),
		Preferred: bundle.Preferred(),
		Bundle:    bundle,
		Summary:   selector.Summarize(node),
	}

	step.SetAttributes(attribute.String("preferred", res.Preferred))
	logger.Info("Element inspected", zap.String("preferred", res.Preferred))

	return res, nil
}

// match snapshots the live page and resolves sel against it.
func (s *SelectorService) match(ctx context.Context, op, sel string) (*entity.PageSnapshot, matcher.Match, error) {
	if strings.TrimSpace(sel) == "" {
		return nil, matcher.Match{}, apperr.InvalidReqError(op, "selector", errors.New("selector cannot be empty"))
	}

	snap, err := s.browser.Snapshot(ctx)
	if err != nil {
		return nil, matcher.Match{}, apperr.Wrap(op, apperr.CodeOf(err), err, map[string]any{
			apperr.MetaReason: "snapshot_failed",
			apperr.MetaStage:  apperr.StagePageState,
		})
	}

	page, err := matcher.Parse(strings.NewReader(snap.HTML))
	if err != nil {
		return nil, matcher.Match{}, err
	}

	match, err := page.Match(sel)
	if err != nil {
		return nil, matcher.Match{}, err
	}

	return snap, match, nil
}

func (s *SelectorService) preview(match matcher.Match) []entity.ElementInfo {
	nodes := head(match.Nodes(), s.config.CheckPreview)
	infos := make([]entity.ElementInfo, 0, len(nodes))

	for i, n := range nodes {
		node := dom.FromHTML(n)
		if node == nil {
			continue
		}

		attrs := make(map[string]string)
		for _, a := range node.Attributes() {
			for _, name := range previewAttributes {
				if a.Name == name {
					attrs[name] = a.Value
				}
			}
		}

		infos = append(infos, entity.ElementInfo{
			Index:      i,
			Tag:        selector.TagSelector(node),
			Text:       cut(matcher.NormalizeSpace(node.Text()), s.config.TextLimit),
			Attributes: attrs,
		})
	}

	return infos
}

// highlight is best effort: the page may have changed since the snapshot.
func (s *SelectorService) highlight(ctx context.Context, logger *zap.Logger, match matcher.Match) {
	count, err := s.browser.Highlight(ctx, match.Expression, match.Kind)
	if err != nil {
		logger.Warn("Highlight failed", zap.Error(err))

		return
	}

	logger.Debug("Elements highlighted", zap.Int(logg.Count, count))
}

func head[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}

	return items
}

func cut(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
