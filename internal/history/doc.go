// Package history keeps the engine's own record of completed navigations.
//
// The stack is an append-only, capacity-bounded log mirroring the native
// history layer: one entry per completed navigation, including the initial
// load and back/forward traversals. When the bound is exceeded the oldest
// entries are dropped from the front. Scroll offsets recorded at push time
// are looked up again when a backward traversal needs to restore them.
package history
