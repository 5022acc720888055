// Package metrics exposes Prometheus collectors for the navigation
// engine: cache effectiveness, fetch outcomes and latency, deduplicated
// waiters, and completed navigations. A nil *Metrics is a valid no-op
// receiver so instrumentation stays optional.
package metrics
