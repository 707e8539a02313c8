package webclient

import (
	"net/http"
	"time"
)

// Config holds the settings for constructing a Client.
type Config struct {
	// Timeout bounds the whole request including body read. Zero selects
	// the 30s default.
	Timeout time.Duration

	// Headers is applied to every outgoing request. Typically the shared
	// browser-like header set.
	Headers http.Header
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
	}
}
