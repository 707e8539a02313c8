package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/raysh454/kasumi/internal/logging"
)

// Tab is one page session inside the shared browser. A tab outlives the
// renders that run on it; the pool recycles it as-is between checkouts.
type Tab struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
}

// NewTab opens a fresh tab, installs the stealth script, applies the
// user agent override and enables request interception for every URL at
// the request stage. All three stick to the tab across navigations.
func (b *Browser) NewTab() (*Tab, error) {
	tctx, cancel := chromedp.NewContext(b.ctx)

	init := chromedp.Tasks{
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
	}
	if b.cfg.UserAgent != "" {
		ua := emulation.SetUserAgentOverride(b.cfg.UserAgent)
		if b.cfg.AcceptLanguage != "" {
			ua = ua.WithAcceptLanguage(b.cfg.AcceptLanguage)
		}
		init = append(init, ua)
	}
	init = append(init, fetch.Enable().WithPatterns([]*fetch.RequestPattern{{
		URLPattern:   "*",
		RequestStage: fetch.RequestStageRequest,
	}}))

	runCtx, cancelRun := context.WithTimeout(tctx, b.cfg.NavigateTimeout)
	defer cancelRun()
	if err := chromedp.Run(runCtx, init); err != nil {
		cancel()
		return nil, fmt.Errorf("create tab: %w", err)
	}

	t := &Tab{
		id:     uuid.NewString(),
		ctx:    tctx,
		cancel: cancel,
	}
	b.logger.Debug("created tab", logging.Field{Key: "tab_id", Value: t.id})
	return t, nil
}

// ID returns the tab's stable identifier, used in log fields.
func (t *Tab) ID() string { return t.id }

// Park points the tab at about:blank so the previous page's scripts and
// timers stop running while the tab sits idle in the pool.
func (t *Tab) Park(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Navigate("about:blank")); err != nil {
		return fmt.Errorf("park tab: %w", err)
	}
	return nil
}

// Close destroys the tab.
func (t *Tab) Close() {
	if t.cancel != nil {
		t.cancel()
	}
}

// stealthScript runs before any page script on every document the tab
// loads. It clears the automation tells headless Chrome leaves in the JS
// environment so a rendered page sees the same client as a desktop
// browser. The user agent itself is handled separately via
// SetUserAgentOverride.
const stealthScript = `(() => {
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	if (!window.chrome) {
		window.chrome = { runtime: {} };
	}
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
	if (navigator.plugins.length === 0) {
		Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
	}
	const query = navigator.permissions.query.bind(navigator.permissions);
	navigator.permissions.query = (p) => p.name === 'notifications'
		? Promise.resolve({ state: Notification.permission })
		: query(p);
})();`
