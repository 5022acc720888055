package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	opts := Default()

	assert.Equal(t, "main", opts.ContainerSelector)
	assert.Equal(t, 10, opts.CacheCapacity)
	assert.Equal(t, 20, opts.HistoryStackSize)
	assert.Equal(t, time.Duration(0), opts.TransitionDuration)
	assert.True(t, opts.ScrollRestoration)
	assert.False(t, opts.SanitizeContent)

	assert.Equal(t, 30*time.Second, opts.Fetch.Timeout)
	assert.Equal(t, 2, opts.Fetch.TransportRetries)
	assert.Zero(t, opts.Fetch.RequestsPerSecond)

	assert.Equal(t, "info", opts.Logging.Level)
	assert.False(t, opts.Logging.Development)
}

func TestLoadOrDefault(t *testing.T) {
	opts := LoadOrDefault()

	assert.NotNil(t, opts)
	assert.Equal(t, "main", opts.ContainerSelector)
	assert.Equal(t, "info", opts.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"SOFTNAV_CONTAINER":          "#content",
		"SOFTNAV_CACHE_CAPACITY":     "3",
		"SOFTNAV_HISTORY_SIZE":       "5",
		"SOFTNAV_TRANSITION":         "150ms",
		"SOFTNAV_SCROLL_RESTORATION": "false",
		"SOFTNAV_SANITIZE":           "true",
		"SOFTNAV_FETCH_TIMEOUT":      "5s",
		"SOFTNAV_FETCH_RPS":          "4",
		"SOFTNAV_LOG_LEVEL":          "debug",
		"SOFTNAV_LOG_DEV":            "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	opts, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "#content", opts.ContainerSelector)
	assert.Equal(t, 3, opts.CacheCapacity)
	assert.Equal(t, 5, opts.HistoryStackSize)
	assert.Equal(t, 150*time.Millisecond, opts.TransitionDuration)
	assert.False(t, opts.ScrollRestoration)
	assert.True(t, opts.SanitizeContent)
	assert.Equal(t, 5*time.Second, opts.Fetch.Timeout)
	assert.Equal(t, 4.0, opts.Fetch.RequestsPerSecond)
	assert.Equal(t, "debug", opts.Logging.Level)
	assert.True(t, opts.Logging.Development)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("SOFTNAV_CACHE_CAPACITY", "not-a-number")

	_, err := Load()
	require.Error(t, err)

	// LoadOrDefault falls back instead of failing.
	opts := LoadOrDefault()
	assert.Equal(t, 10, opts.CacheCapacity)
	_ = os.Unsetenv("SOFTNAV_CACHE_CAPACITY")
}
