package history

import "sync"

// Entry is one completed navigation: where it went, the title it landed
// on, the state attached to the native history slot, and the scroll
// offset captured when the entry was pushed. Entries are not mutated
// after recording.
type Entry struct {
	URL    string
	Title  string
	State  map[string]any
	Scroll float64
}

// Stack is the bounded navigation log. A size of zero or less leaves the
// log unbounded.
type Stack struct {
	size int

	mu      sync.Mutex
	entries []Entry
}

// New creates a stack bounded to size entries, seeded with the initial
// load so the first back traversal has somewhere to return to.
func New(size int, initial Entry) *Stack {
	s := &Stack{size: size}
	s.Record(initial)
	return s
}

// Record appends e, then trims from the front until the bound holds.
func (s *Stack) Record(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	if s.size > 0 && len(s.entries) > s.size {
		s.entries = s.entries[len(s.entries)-s.size:]
	}
}

// OffsetBack returns the scroll offset recorded for the entry |step|
// positions back from the top of the stack; step is negative for going
// back. It reports false when the walk leaves the stack, which can happen
// when deep traversals outrun a small bound; the caller should then leave
// the scroll position alone rather than guess.
func (s *Stack) OffsetBack(step int) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := len(s.entries) - 1 + step
	if step >= 0 || idx < 0 || idx >= len(s.entries) {
		return 0, false
	}
	return s.entries[idx].Scroll, true
}

// Top returns the most recent entry.
func (s *Stack) Top() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Len returns the number of recorded entries still retained.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the retained log, oldest first.
func (s *Stack) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
