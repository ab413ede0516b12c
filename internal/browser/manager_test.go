package browser

import (
	"context"
	"testing"

	"omnifetch/internal/config"
	"omnifetch/internal/entity"
	"omnifetch/pkg/apperr"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	return NewManager(Params{
		Config: &config.Config{BrowserConfig: &config.BrowserConfig{HighlightMS: 100}},
		Logger: zaptest.NewLogger(t),
	})
}

func TestManager_NotReady(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	assert.False(t, m.IsReady())

	_, err := m.Snapshot(ctx)
	assert.Equal(t, apperr.CodeBrowserNotReady, apperr.CodeOf(err))

	_, err = m.Highlight(ctx, "li", entity.SelectorCSS)
	assert.Equal(t, apperr.CodeBrowserNotReady, apperr.CodeOf(err))

	err = m.Navigate(ctx, "https://example.com")
	assert.Equal(t, apperr.CodeBrowserNotReady, apperr.CodeOf(err))
}

func TestManager_CloseWithoutLaunch(t *testing.T) {
	assert.NoError(t, newTestManager(t).Close(context.Background()))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 3, toInt(3))
	assert.Equal(t, 4, toInt(int64(4)))
	assert.Equal(t, 5, toInt(float64(5)))
	assert.Equal(t, 0, toInt("7"))
	assert.Equal(t, 0, toInt(nil))
}

type fakeBrowser struct {
	playwright.Browser
	closed int
}

func (f *fakeBrowser) Close(...playwright.BrowserCloseOptions) error {
	f.closed++

	return nil
}

func TestManager_AbortLaunchClosesOwnedBrowser(t *testing.T) {
	m := newTestManager(t)
	owned := &fakeBrowser{}
	m.browser = owned
	m.ready = true

	m.abortLaunch(m.logger)

	assert.Equal(t, 1, owned.closed)
	assert.Nil(t, m.browser)
	assert.Nil(t, m.playwright)
	assert.False(t, m.IsReady())
}

func TestManager_AbortLaunchLeavesAttachedBrowserRunning(t *testing.T) {
	m := newTestManager(t)
	users := &fakeBrowser{}
	m.browser = users
	m.attached = true

	m.abortLaunch(m.logger)

	assert.Zero(t, users.closed)
	assert.False(t, m.attached)
}

func TestManager_CloseAfterFailedAttachClosesLaunchedBrowser(t *testing.T) {
	m := newTestManager(t)

	// a half-finished attach is forgotten before the fallback launch
	m.attached = true
	m.resetSession()

	launched := &fakeBrowser{}
	m.browser = launched
	m.ready = true

	assert.NoError(t, m.Close(context.Background()))
	assert.Equal(t, 1, launched.closed)
}
