package demosite

// Config holds demo site configuration.
type Config struct {
	// Port to listen on.
	Port int

	// InitialMode selects the blocking behavior at startup.
	InitialMode Mode
}

// DefaultConfig returns the default demo site configuration.
func DefaultConfig() Config {
	return Config{
		Port:        9999,
		InitialMode: ModeChallenge,
	}
}
