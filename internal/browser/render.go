package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/raysh454/kasumi/internal/logging"
)

// RenderRequest describes a single browser render.
type RenderRequest struct {
	URL string

	// WaitSelector, when set, is the element the render waits for after
	// navigation instead of relying on the load event alone.
	WaitSelector string

	// WaitTimeout bounds the wait for WaitSelector. Zero selects
	// DefaultWaitTimeout.
	WaitTimeout time.Duration

	// CachedHTML, when set, answers the page's first document request so
	// the origin is not asked for the same HTML twice.
	CachedHTML []byte
}

// Render runs one full fallback attempt on a pooled tab: install the
// interception policy, navigate, wait, capture the final DOM. Whatever
// happens, the tab is parked on about:blank and released back to the
// pool.
func (p *Pool) Render(ctx context.Context, req RenderRequest) (string, error) {
	tab, err := p.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer p.Release(tab)
	defer func() {
		if err := tab.Park(p.cfg.NavigateTimeout); err != nil {
			p.logger.Warn("failed to park tab",
				logging.Field{Key: "tab_id", Value: tab.ID()},
				logging.Field{Key: "error", Value: err.Error()})
		}
	}()

	st := &attemptState{payload: req.CachedHTML}
	logger := p.logger.With(
		logging.Field{Key: "tab_id", Value: tab.ID()},
		logging.Field{Key: "url", Value: req.URL})
	stop := tab.intercept(st, logger)
	defer stop()

	logger.Debug("rendering", logging.Field{Key: "cached_bytes", Value: len(req.CachedHTML)})

	navCtx, cancelNav := context.WithTimeout(tab.ctx, p.cfg.NavigateTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx, chromedp.Navigate(req.URL)); err != nil {
		return "", fmt.Errorf("%w: navigate %s: %v", ErrNavigation, req.URL, err)
	}

	if req.WaitSelector != "" {
		waitTimeout := req.WaitTimeout
		if waitTimeout <= 0 {
			waitTimeout = DefaultWaitTimeout
		}
		waitCtx, cancelWait := context.WithTimeout(tab.ctx, waitTimeout)
		defer cancelWait()
		if err := chromedp.Run(waitCtx, chromedp.WaitReady(req.WaitSelector, chromedp.ByQuery)); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: %q after %s", ErrNavigationTimeout, req.WaitSelector, waitTimeout)
			}
			return "", fmt.Errorf("%w: wait for %q: %v", ErrNavigation, req.WaitSelector, err)
		}
	}

	var html string
	htmlCtx, cancelHTML := context.WithTimeout(tab.ctx, p.cfg.NavigateTimeout)
	defer cancelHTML()
	if err := chromedp.Run(htmlCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("%w: capture html: %v", ErrNavigation, err)
	}

	logger.Debug("render complete", logging.Field{Key: "bytes", Value: len(html)})
	return html, nil
}
