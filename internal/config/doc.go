// Package config holds the engine's options.
//
// Options are plain values with envconfig tags, so embedding hosts can
// construct them directly while standalone hosts (the demo binary) load
// them from the environment with sensible defaults.
//
// Sections:
//   - Options: container selector, cache and history bounds, transition
//     delay, scroll restoration, sanitization
//   - Fetch: HTTP client settings (timeout, transport retries, rate limit)
//   - Logging: log level and output format
//
// Environment Variables:
//   - SOFTNAV_CONTAINER, SOFTNAV_CACHE_CAPACITY, SOFTNAV_HISTORY_SIZE
//   - SOFTNAV_TRANSITION, SOFTNAV_SCROLL_RESTORATION, SOFTNAV_SANITIZE
//   - SOFTNAV_FETCH_TIMEOUT, SOFTNAV_FETCH_RETRIES, SOFTNAV_FETCH_RPS
//   - SOFTNAV_LOG_LEVEL, SOFTNAV_LOG_DEV
package config
