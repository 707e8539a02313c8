package app

import (
	"fmt"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/raysh454/kasumi/internal/browser"
	"github.com/raysh454/kasumi/internal/fetch"
	"github.com/raysh454/kasumi/internal/logging"
	"github.com/raysh454/kasumi/internal/server"
	"github.com/raysh454/kasumi/internal/webclient"
)

// Settings is the flat environment surface of the service. Each field
// maps to one KASUMI_* variable.
type Settings struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"4000"`

	TabPoolSize    int    `envconfig:"TAB_POOL_SIZE" default:"10"`
	Headless       bool   `envconfig:"HEADLESS" default:"true"`
	DisableSandbox bool   `envconfig:"DISABLE_SANDBOX" default:"false"`
	ProfileDir     string `envconfig:"PROFILE_DIR" default:""`
	ChromePath     string `envconfig:"CHROME_PATH" default:""`
	UserAgent      string `envconfig:"USER_AGENT" default:""`

	NavTimeout     time.Duration `envconfig:"NAV_TIMEOUT" default:"30s"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	AcquireTimeout time.Duration `envconfig:"POOL_ACQUIRE_TIMEOUT" default:"0s"`
	WaitTimeout    time.Duration `envconfig:"WAIT_TIMEOUT" default:"20s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:""`

	HistoryPath string `envconfig:"HISTORY_PATH" default:""`
}

// Config aggregates the per-package configurations the app wires together.
type Config struct {
	Server  server.Config
	Fetch   fetch.Config
	Browser browser.Config
	Client  webclient.Config
	Logging logging.Config

	// HistoryPath enables the sqlite fetch log when non-empty.
	HistoryPath string
}

// DefaultConfig builds a Config from each package's defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:  server.DefaultConfig(),
		Fetch:   fetch.DefaultConfig(),
		Browser: browser.DefaultConfig(),
		Client:  webclient.DefaultConfig(),
		Logging: logging.DefaultConfig(),
	}
}

// Load reads KASUMI_* environment variables on top of the defaults.
func Load() (*Config, error) {
	var s Settings
	if err := envconfig.Process("kasumi", &s); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return s.toConfig(), nil
}

// toConfig spreads the flat settings over the per-package configs.
func (s Settings) toConfig() *Config {
	cfg := DefaultConfig()

	cfg.Server.ListenAddr = net.JoinHostPort(s.Host, s.Port)

	cfg.Browser.MaxTabs = s.TabPoolSize
	cfg.Browser.Headless = s.Headless
	cfg.Browser.DisableSandbox = s.DisableSandbox
	if s.ProfileDir != "" {
		cfg.Browser.ProfileDir = s.ProfileDir
	}
	cfg.Browser.ExecPath = s.ChromePath
	cfg.Browser.UserAgent = s.UserAgent
	cfg.Browser.NavigateTimeout = s.NavTimeout
	cfg.Browser.AcquireTimeout = s.AcquireTimeout

	cfg.Client.Timeout = s.HTTPTimeout
	cfg.Fetch.WaitTimeout = s.WaitTimeout

	cfg.Logging.Level = s.LogLevel
	cfg.Logging.File = s.LogFile

	cfg.HistoryPath = s.HistoryPath
	return cfg
}
