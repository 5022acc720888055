package dom

import "sync"

// NativeEntry is one slot of the in-memory native history.
type NativeEntry struct {
	State map[string]any
	URL   string
}

// MemHistory is an in-memory native history for tests and the demo
// host. It mimics the browser model: Push drops any forward entries
// before appending, Replace overwrites the current slot, and Traverse
// moves the pointer the way user back/forward buttons do. Traversal
// does not re-enter the engine; the host forwards the landed entry to
// the engine's pop-state path.
type MemHistory struct {
	mu      sync.Mutex
	entries []NativeEntry
	idx     int
}

// NewMemHistory creates a native history seeded with the initial slot.
func NewMemHistory(state map[string]any, url string) *MemHistory {
	return &MemHistory{
		entries: []NativeEntry{{State: state, URL: url}},
	}
}

// Push appends a new slot at url, truncating forward history.
func (h *MemHistory) Push(state map[string]any, url string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries[:h.idx+1], NativeEntry{State: state, URL: url})
	h.idx = len(h.entries) - 1
}

// Replace overwrites the current slot.
func (h *MemHistory) Replace(state map[string]any, url string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.idx] = NativeEntry{State: state, URL: url}
}

// Current returns the slot the pointer rests on.
func (h *MemHistory) Current() NativeEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.idx]
}

// Traverse moves the pointer by step (negative for back) and returns
// the slot it lands on. It reports false, without moving, when the step
// leaves the history.
func (h *MemHistory) Traverse(step int) (NativeEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.idx + step
	if next < 0 || next >= len(h.entries) {
		return NativeEntry{}, false
	}
	h.idx = next
	return h.entries[h.idx], true
}

// Len returns the number of native slots.
func (h *MemHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
