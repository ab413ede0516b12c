package browser

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"omnifetch/internal/config"
	"omnifetch/internal/entity"
	"omnifetch/pkg/apperr"
	"omnifetch/pkg/logg"
	"omnifetch/pkg/tracing"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	browserManagerName = "BrowserManager"
	browserTracer      = "browser.manager"
	loadStateTimeout   = 5000
)

type Manager struct {
	config         *config.Config
	logger         *zap.Logger
	tracer         trace.Tracer
	mu             sync.Mutex
	playwright     *playwright.Playwright
	browser        playwright.Browser
	browserContext playwright.BrowserContext
	page           playwright.Page
	attached       bool
	ready          bool
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewManager(params Params) *Manager {
	return &Manager{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, browserManagerName)),
		tracer: otel.Tracer(browserTracer),
		ready:  false,
	}
}

func (m *Manager) Launch(ctx context.Context) (err error) {
	const op = "Launch"
	logger := m.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Info("Starting browser session...")
	step.AddEvent("installing playwright")

	err = playwright.Install()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_install_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	step.AddEvent("starting playwright")

	pw, err := playwright.Run()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_start_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	m.playwright = pw

	defer func() {
		if err != nil {
			m.abortLaunch(logger)
		}
	}()

	browserConfig := m.config.BrowserConfig

	if browserConfig.CDPURL != "" {
		err = m.connectOverCDP(ctx)
		if err == nil {
			return m.openStartURL(ctx)
		}

		logger.Warn("No browser to attach to, launching one", zap.Error(err))
	}

	if browserConfig.UserDataDir != "" {
		err = m.launchPersistent(ctx)
	} else {
		err = m.launchNew(ctx)
	}

	if err != nil {
		return err
	}

	return m.openStartURL(ctx)
}

func (m *Manager) openStartURL(ctx context.Context) error {
	if url := m.config.BrowserConfig.StartURL; url != "" {
		return m.navigate(ctx, url)
	}

	return nil
}

// connectOverCDP attaches to a Chrome the user already runs with
// --remote-debugging-port and reuses its first open page.
func (m *Manager) connectOverCDP(ctx context.Context) (err error) {
	const op = "connectOverCDP"
	endpoint := m.config.BrowserConfig.CDPURL
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, endpoint))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op, attribute.String("endpoint", endpoint))
	defer func() {
		step.End(err)
	}()

	browser, err := m.playwright.Chromium.ConnectOverCDP(endpoint)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeUnavailable, err, map[string]any{
			apperr.MetaReason: "cdp_connect_failed",
			apperr.MetaStage:  apperr.StageBrowser,
			apperr.MetaURL:    endpoint,
		})
	}

	defer func() {
		if err != nil {
			if cerr := browser.Close(); cerr != nil {
				logger.Warn("Failed to disconnect", zap.Error(cerr))
			}

			m.resetSession()
		}
	}()

	contexts := browser.Contexts()
	if len(contexts) > 0 {
		m.browserContext = contexts[0]
	} else {
		browserContext, err := browser.NewContext()
		if err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "context_create_failed",
				apperr.MetaStage:  apperr.StageBrowser,
			})
		}
		m.browserContext = browserContext
	}

	if err := m.ensurePageActive(); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_not_active",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	m.browser = browser
	m.attached = true
	m.ready = true
	logger.Info("Attached to running browser")

	return nil
}

func (m *Manager) launchPersistent(ctx context.Context) (err error) {
	const op = "launchPersistent"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Launching persistent browser context")

	userDataDir := m.config.BrowserConfig.UserDataDir

	if err := os.MkdirAll(userDataDir, 0755); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "mkdir_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	options := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:          playwright.Bool(m.config.BrowserConfig.Headless),
		SlowMo:            playwright.Float(float64(m.config.BrowserConfig.SlowMo)),
		Viewport:          &playwright.Size{Width: 1280, Height: 720},
		JavaScriptEnabled: playwright.Bool(true),
	}

	browserContext, err := m.playwright.Chromium.LaunchPersistentContext(userDataDir, options)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "launch_persistent_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	m.browserContext = browserContext

	if err := m.ensurePageActive(); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "new_page_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	m.ready = true
	logger.Info("Browser launched successfully")

	return nil
}

func (m *Manager) launchNew(ctx context.Context) (err error) {
	const op = "launchNew"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	logger.Info("Launching new browser")

	browser, err := m.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.config.BrowserConfig.Headless),
		SlowMo:   playwright.Float(float64(m.config.BrowserConfig.SlowMo)),
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "browser_launch_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	m.browser = browser

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: 1280, Height: 720},
		JavaScriptEnabled: playwright.Bool(true),
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "context_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	m.browserContext = browserContext

	if err := m.ensurePageActive(); err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	m.ready = true
	logger.Info("Browser launched successfully")

	return nil
}

func (m *Manager) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ready = false

	switch {
	case m.attached:
		logger.Info("Detaching from browser, leaving it running")
	case m.config.BrowserConfig.UserDataDir != "":
		if m.browserContext != nil {
			if err := m.browserContext.Close(); err != nil {
				logger.Warn("Failed to close context", zap.Error(err))
			}
		}
	default:
		if m.browserContext != nil {
			if err := m.browserContext.Close(); err != nil {
				logger.Warn("Failed to close context", zap.Error(err))
			}
		}

		if m.browser != nil {
			if err := m.browser.Close(); err != nil {
				logger.Warn("Failed to close browser", zap.Error(err))
			}
		}
	}

	if m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "playwright_stop_failed",
			})
		}
	}

	logger.Info("Browser session closed")

	return nil
}

// abortLaunch releases whatever a failed Launch started. fx skips OnStop
// for a hook whose OnStart failed, so nothing else would. Callers hold m.mu.
func (m *Manager) abortLaunch(logger *zap.Logger) {
	if !m.attached {
		if m.browserContext != nil {
			if err := m.browserContext.Close(); err != nil {
				logger.Warn("Failed to close context", zap.Error(err))
			}
		}

		if m.browser != nil {
			if err := m.browser.Close(); err != nil {
				logger.Warn("Failed to close browser", zap.Error(err))
			}
		}
	}

	if m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			logger.Warn("Failed to stop playwright", zap.Error(err))
		}
	}

	m.playwright = nil
	m.resetSession()
}

// resetSession forgets the browser handles. Callers hold m.mu.
func (m *Manager) resetSession() {
	m.browser = nil
	m.browserContext = nil
	m.page = nil
	m.attached = false
	m.ready = false
}

// ensurePageActive points m.page at an open page, creating one when the user
// closed them all. Callers hold m.mu.
func (m *Manager) ensurePageActive() error {
	if m.browserContext == nil {
		return fmt.Errorf("browser context is nil")
	}

	if m.page != nil && !m.page.IsClosed() {
		return nil
	}

	for _, p := range m.browserContext.Pages() {
		if !p.IsClosed() {
			m.page = p
			m.logger.Debug("Using existing page", zap.String(logg.URL, p.URL()))

			return nil
		}
	}

	page, err := m.browserContext.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create new page: %w", err)
	}

	m.page = page
	m.logger.Info("Created new page")

	return nil
}

// activePage checks readiness and returns the live page. Callers hold m.mu.
func (m *Manager) activePage(op string) (playwright.Page, error) {
	if !m.ready {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	if err := m.ensurePageActive(); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeBrowserNotReady, err, map[string]any{
			apperr.MetaReason: "page_not_active",
		})
	}

	return m.page, nil
}

func (m *Manager) Navigate(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.navigate(ctx, url)
}

func (m *Manager) navigate(ctx context.Context, url string) (err error) {
	const op = "Navigate"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	page, err := m.activePage(op)
	if err != nil {
		return err
	}

	step.AddEvent("navigating to URL")

	_, err = page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(m.config.BrowserConfig.Timeout)),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "goto_failed",
			apperr.MetaStage:  apperr.StageNavigation,
			apperr.MetaURL:    url,
		})
	}

	logger.Info("Navigation completed")

	return nil
}

// Snapshot captures the current page's URL and serialised DOM.
func (m *Manager) Snapshot(ctx context.Context) (snap *entity.PageSnapshot, err error) {
	const op = "Snapshot"
	logger := m.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	page, err := m.activePage(op)
	if err != nil {
		return nil, err
	}

	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(loadStateTimeout),
	}); err != nil {
		logger.Warn("Page not fully loaded", zap.Error(err))
	}

	content, err := page.Content()
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "content_failed",
			apperr.MetaStage:  apperr.StagePageState,
		})
	}

	step.SetAttributes(attribute.Int("html_bytes", len(content)))

	return &entity.PageSnapshot{
		URL:       page.URL(),
		HTML:      content,
		Timestamp: time.Now(),
	}, nil
}

// Highlight outlines every element selector matches in the live page for
// the configured duration and returns how many were outlined.
func (m *Manager) Highlight(ctx context.Context, selector string, kind entity.SelectorKind) (count int, err error) {
	const op = "Highlight"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op,
		attribute.String("selector", selector),
		attribute.String("kind", string(kind)))
	defer func() {
		step.End(err)
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	page, err := m.activePage(op)
	if err != nil {
		return 0, err
	}

	result, err := page.Evaluate(highlightScript, map[string]interface{}{
		"selector": selector,
		"kind":     string(kind),
		"duration": m.config.BrowserConfig.HighlightMS,
	})
	if err != nil {
		return 0, apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason:   "evaluate_failed",
			apperr.MetaSelector: selector,
		})
	}

	return toInt(result), nil
}

func (m *Manager) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ready
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
