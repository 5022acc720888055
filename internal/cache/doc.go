// Package cache provides the bounded content cache for fetched pages.
//
// Entries are keyed by the exact href they were resolved from and ordered
// by recency of touch: both reads and writes promote an entry to the
// most-recent position, and the least-recent entry is evicted when a new
// page lands in a full cache. A capacity of zero or less disables
// retention entirely, which lets a host opt out of caching without
// changing the fetch path.
//
// The cache stores page fragments as opaque values owned by the document
// layer; it never inspects them.
package cache
