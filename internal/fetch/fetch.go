// Package fetch implements the two-stage HTML retrieval flow: a direct
// HTTP GET with browser-like headers first, then a single headless
// browser render when the response body looks like a block page.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raysh454/kasumi/internal/blockdetect"
	"github.com/raysh454/kasumi/internal/browser"
	"github.com/raysh454/kasumi/internal/history"
	"github.com/raysh454/kasumi/internal/logging"
)

// Request describes one GetHTML call.
type Request struct {
	// URL to fetch. Required.
	URL string

	// WaitForElement is a CSS selector the browser render waits for
	// before extracting HTML. Empty skips the wait.
	WaitForElement string

	// WaitTimeout bounds the WaitForElement wait. Zero falls back to
	// the fetcher's configured default.
	WaitTimeout time.Duration

	// BlockedSelectors are CSS selectors whose presence marks a page as
	// blocked. With no selectors no page is ever considered blocked and
	// the browser fallback never runs.
	BlockedSelectors []string
}

// Fetcher runs the fast-path GET and escalates blocked pages to the
// browser renderer. Safe for concurrent use.
type Fetcher struct {
	cfg      Config
	client   Getter
	renderer Renderer
	recorder Recorder
	logger   logging.Logger
}

// New creates a Fetcher. recorder may be nil to disable the audit log.
func New(cfg Config, client Getter, renderer Renderer, recorder Recorder, logger logging.Logger) (*Fetcher, error) {
	if client == nil {
		return nil, errors.New("fetch: client is nil")
	}
	if renderer == nil {
		return nil, errors.New("fetch: renderer is nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = browser.DefaultWaitTimeout
	}

	return &Fetcher{
		cfg:      cfg,
		client:   client,
		renderer: renderer,
		recorder: recorder,
		logger:   logger.With(logging.Field{Key: "component", Value: "fetch"}),
	}, nil
}

// GetHTML fetches req.URL and returns its HTML.
//
// The direct GET either serves the page or fails the call: transport
// errors and non-2xx statuses return ErrNetwork without touching the
// browser. When the body matches one of req.BlockedSelectors the fetcher
// runs exactly one browser render, feeding the already-fetched body back
// to the page as its document. A render that still matches returns
// ErrBypassFailed.
func (f *Fetcher) GetHTML(ctx context.Context, req *Request) (string, error) {
	if req == nil || req.URL == "" {
		return "", errors.New("fetch: request URL is required")
	}

	r := *req
	if r.WaitTimeout <= 0 {
		r.WaitTimeout = f.cfg.WaitTimeout
	}

	id := uuid.New().String()
	logger := f.logger.With(
		logging.Field{Key: "fetch_id", Value: id},
		logging.Field{Key: "url", Value: r.URL},
	)

	start := time.Now()
	html, usedBrowser, err := f.getHTML(ctx, &r, logger)
	f.record(ctx, history.Record{
		ID:          id,
		URL:         r.URL,
		Outcome:     outcomeFor(err),
		UsedBrowser: usedBrowser,
		DurationMS:  time.Since(start).Milliseconds(),
		Error:       errText(err),
	})
	return html, err
}

func (f *Fetcher) getHTML(ctx context.Context, req *Request, logger logging.Logger) (html string, usedBrowser bool, err error) {
	resp, err := f.client.Get(ctx, req.URL)
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrNetwork, req.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, fmt.Errorf("%w: get %s: unexpected status %d", ErrNetwork, req.URL, resp.StatusCode)
	}

	body := string(resp.Body)
	doc, err := blockdetect.Parse(body)
	if err != nil {
		return "", false, fmt.Errorf("parse %s: %w", req.URL, err)
	}
	if !blockdetect.Blocked(doc, req.BlockedSelectors) {
		logger.Debug("direct fetch served the page",
			logging.Field{Key: "bytes", Value: len(resp.Body)})
		return body, false, nil
	}

	logger.Info("block page detected, escalating to browser render")
	rendered, err := f.renderer.Render(ctx, browser.RenderRequest{
		URL:          req.URL,
		WaitSelector: req.WaitForElement,
		WaitTimeout:  req.WaitTimeout,
		CachedHTML:   resp.Body,
	})
	if err != nil {
		return "", true, err
	}

	doc, err = blockdetect.Parse(rendered)
	if err != nil {
		return "", true, fmt.Errorf("parse rendered %s: %w", req.URL, err)
	}
	if blockdetect.Blocked(doc, req.BlockedSelectors) {
		return "", true, fmt.Errorf("%w: %s", ErrBypassFailed, req.URL)
	}

	logger.Info("browser render served the page",
		logging.Field{Key: "bytes", Value: len(rendered)})
	return rendered, true, nil
}

// record writes the audit row. Records outlive request cancellation.
func (f *Fetcher) record(ctx context.Context, rec history.Record) {
	if f.recorder == nil {
		return
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := f.recorder.Record(rctx, rec); err != nil {
		f.logger.Warn("failed to record fetch history",
			logging.Field{Key: "fetch_id", Value: rec.ID},
			logging.Field{Key: "error", Value: err.Error()})
	}
}

// outcomeFor maps a GetHTML error to its audit log label.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case errors.Is(err, ErrBypassFailed):
		return "bypass_failed"
	case errors.Is(err, browser.ErrNavigationTimeout):
		return "navigation_timeout"
	case errors.Is(err, browser.ErrNavigation):
		return "navigation_error"
	case errors.Is(err, browser.ErrPoolTimeout):
		return "pool_timeout"
	default:
		return "error"
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
