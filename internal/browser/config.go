package browser

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultWaitTimeout bounds the wait-for-element phase of a render when
// the caller did not pick a timeout.
const DefaultWaitTimeout = 20 * time.Second

// Config holds the settings for the shared browser process and its tab
// pool.
type Config struct {
	// MaxTabs caps how many tabs the pool will ever create.
	MaxTabs int

	Headless bool

	// DisableSandbox adds --no-sandbox. Needed in most containers.
	DisableSandbox bool

	// ProfileDir is the Chrome user data directory.
	ProfileDir string

	// ExecPath points at the Chrome binary. Empty lets chromedp find one.
	ExecPath string

	// UserAgent and AcceptLanguage are applied to every tab so rendered
	// requests present the same client as the direct fetch path. Empty
	// values leave the browser defaults alone.
	UserAgent      string
	AcceptLanguage string

	// NavigateTimeout is the watchdog on navigation, parking and DOM
	// capture. It is not the wait-for-element timeout, which arrives per
	// request.
	NavigateTimeout time.Duration

	// AcquireTimeout bounds the wait for a free tab. Zero waits as long
	// as the caller's context allows.
	AcquireTimeout time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxTabs:         10,
		Headless:        true,
		ProfileDir:      filepath.Join(os.TempDir(), "kasumi-profile"),
		NavigateTimeout: 30 * time.Second,
	}
}
