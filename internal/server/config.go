package server

// Config holds the HTTP server settings.
type Config struct {
	// ListenAddr is the host:port the API server binds to.
	ListenAddr string
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr: "0.0.0.0:4000",
	}
}
