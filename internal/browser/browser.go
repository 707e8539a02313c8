// Package browser owns the shared headless Chrome process, the tab pool
// on top of it, and the per-render request interception that lets a
// render reuse HTML the direct fetch already paid for.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/raysh454/kasumi/internal/logging"
)

// Browser is the single Chrome process every tab shares. Launch it once
// at startup; tabs come and go, the process stays.
type Browser struct {
	cfg    Config
	logger logging.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// New launches Chrome and blocks until the process answers. It fails fast
// when no usable binary exists, so a misconfigured deployment dies at
// startup instead of on the first blocked page.
func New(ctx context.Context, cfg Config, logger logging.Logger) (*Browser, error) {
	componentLogger := logger.With(logging.Field{Key: "component", Value: "browser"})

	if cfg.MaxTabs <= 0 {
		cfg.MaxTabs = 10
	}
	if cfg.NavigateTimeout <= 0 {
		cfg.NavigateTimeout = 30 * time.Second
	}
	if cfg.ProfileDir == "" {
		cfg.ProfileDir = filepath.Join(os.TempDir(), "kasumi-profile")
	}
	if err := os.MkdirAll(cfg.ProfileDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure profile dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("no-first-run", true),
		chromedp.UserDataDir(cfg.ProfileDir),
	)
	if cfg.DisableSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)

	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		componentLogger.Debug(fmt.Sprintf(format, args...))
	}))

	// Prime the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	componentLogger.Info("browser started",
		logging.Field{Key: "headless", Value: cfg.Headless},
		logging.Field{Key: "profile_dir", Value: cfg.ProfileDir},
		logging.Field{Key: "max_tabs", Value: cfg.MaxTabs})

	return &Browser{
		cfg:         cfg,
		logger:      componentLogger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         browserCtx,
		cancel:      cancel,
	}, nil
}

// Close tears down the browser process. Every tab dies with it.
func (b *Browser) Close() {
	b.logger.Info("closing browser")
	b.cancel()
	b.allocCancel()
}
