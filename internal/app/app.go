// Package app assembles the service: browser process, tab pool, web
// client, fetcher, optional history store and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/raysh454/kasumi/internal/browser"
	"github.com/raysh454/kasumi/internal/fetch"
	"github.com/raysh454/kasumi/internal/history"
	"github.com/raysh454/kasumi/internal/logging"
	"github.com/raysh454/kasumi/internal/server"
	"github.com/raysh454/kasumi/internal/webclient"
)

// shutdownTimeout bounds the HTTP drain once a stop signal arrives.
const shutdownTimeout = 15 * time.Second

// App owns the long-lived components and their teardown order.
type App struct {
	cfg    *Config
	logger logging.Logger

	browser *browser.Browser
	pool    *browser.Pool
	client  *webclient.Client
	hist    *history.Store
	httpSrv *http.Server
}

// New builds the whole service. The browser launches here, so a broken
// Chrome install fails startup instead of the first blocked page.
func New(cfg *Config, logger logging.Logger) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	a := &App{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "app"}),
	}

	// One header set drives both tiers: the web client sends it on every
	// request and the browser presents the same identity.
	headers := fetch.BrowserHeaders(cfg.Browser.UserAgent)

	browserCfg := cfg.Browser
	browserCfg.UserAgent = headers.Get("User-Agent")
	browserCfg.AcceptLanguage = headers.Get("Accept-Language")

	// The browser has to outlive any single request, so its lifetime is
	// anchored to the background context and ended explicitly in Run.
	b, err := browser.New(context.Background(), browserCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	a.browser = b
	a.pool = browser.NewPool(b, logger)

	clientCfg := cfg.Client
	clientCfg.Headers = headers
	a.client = webclient.New(clientCfg, logger, nil)

	var (
		recorder fetch.Recorder
		reader   server.HistoryReader
	)
	if cfg.HistoryPath != "" {
		hist, err := history.NewStore(cfg.HistoryPath, logger)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("open history store: %w", err)
		}
		a.hist = hist
		recorder = hist
		reader = hist
	}

	fetcher, err := fetch.New(cfg.Fetch, a.client, a.pool, recorder, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	srv, err := server.NewServer(cfg.Server, fetcher, reader, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.httpSrv = srv.HTTPServer()

	return a, nil
}

// Run serves HTTP until ctx is canceled or the listener fails, then
// drains in-flight requests and releases every component.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", logging.Field{Key: "addr", Value: a.httpSrv.Addr})
		errCh <- a.httpSrv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if serr := a.httpSrv.Shutdown(shutdownCtx); serr != nil {
			a.logger.Warn("http shutdown", logging.Field{Key: "error", Value: serr.Error()})
		}
		err = <-errCh
	}

	a.close()
	a.logger.Info("shutdown complete")

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// close releases components in dependency order: tabs before the
// browser that hosts them, stores last.
func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.browser != nil {
		a.browser.Close()
	}
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.hist != nil {
		if err := a.hist.Close(); err != nil {
			a.logger.Warn("closing history store", logging.Field{Key: "error", Value: err.Error()})
		}
	}
}
