package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Options holds all engine configuration.
type Options struct {
	// ContainerSelector locates the swapped subtree in both the live
	// document and fetched responses. CSS by default; an "xpath:" prefix
	// switches to XPath.
	ContainerSelector string `envconfig:"SOFTNAV_CONTAINER" default:"main"`

	// CacheCapacity bounds the content cache. Zero or less disables
	// retention entirely.
	CacheCapacity int `envconfig:"SOFTNAV_CACHE_CAPACITY" default:"10"`

	// HistoryStackSize bounds the navigation log; oldest entries are
	// dropped past the bound.
	HistoryStackSize int `envconfig:"SOFTNAV_HISTORY_SIZE" default:"20"`

	// TransitionDuration is the cooperative pause between navigation
	// start and teardown of the old content, so leave animations kicked
	// off by the navigate-start hook can run.
	TransitionDuration time.Duration `envconfig:"SOFTNAV_TRANSITION" default:"0s"`

	// ScrollRestoration enables restoring recorded offsets on backward
	// traversals and resetting to the top going forward.
	ScrollRestoration bool `envconfig:"SOFTNAV_SCROLL_RESTORATION" default:"true"`

	// SanitizeContent runs fetched fragments through an HTML sanitizer
	// before they are cached.
	SanitizeContent bool `envconfig:"SOFTNAV_SANITIZE" default:"false"`

	Fetch   FetchConfig
	Logging LogConfig
}

// FetchConfig holds HTTP client configuration.
type FetchConfig struct {
	Timeout           time.Duration `envconfig:"SOFTNAV_FETCH_TIMEOUT" default:"30s"`
	TransportRetries  int           `envconfig:"SOFTNAV_FETCH_RETRIES" default:"2"`
	RequestsPerSecond float64       `envconfig:"SOFTNAV_FETCH_RPS" default:"0"` // 0 = unlimited
	UserAgent         string        `envconfig:"SOFTNAV_USER_AGENT" default:"softnav/1.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"SOFTNAV_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"SOFTNAV_LOG_DEV" default:"false"`
}

// Load loads options from environment variables.
func Load() (*Options, error) {
	var opts Options
	if err := envconfig.Process("", &opts); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &opts, nil
}

// LoadOrDefault loads options from the environment or returns defaults.
func LoadOrDefault() *Options {
	opts, err := Load()
	if err != nil {
		return Default()
	}
	return opts
}

// Default returns default options.
func Default() *Options {
	return &Options{
		ContainerSelector: "main",
		CacheCapacity:     10,
		HistoryStackSize:  20,
		ScrollRestoration: true,
		Fetch: FetchConfig{
			Timeout:          30 * time.Second,
			TransportRetries: 2,
			UserAgent:        "softnav/1.0",
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}
