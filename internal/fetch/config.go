package fetch

import (
	"time"

	"github.com/raysh454/kasumi/internal/browser"
)

// Config holds fetcher settings shared across requests.
type Config struct {
	// WaitTimeout bounds the WaitForElement wait during a browser render
	// when the request does not set its own.
	WaitTimeout time.Duration
}

// DefaultConfig returns the fetcher defaults.
func DefaultConfig() Config {
	return Config{
		WaitTimeout: browser.DefaultWaitTimeout,
	}
}
