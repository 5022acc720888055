package dom

import (
	"errors"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/softnav/softnav/internal/cache"
	"github.com/softnav/softnav/internal/history"
	"github.com/softnav/softnav/internal/logging"
)

// ErrBadFragment is returned when a cache entry's content is not a
// fragment this document layer can apply.
var ErrBadFragment = errors.New("dom: cache entry does not hold a fragment")

// SyncConfig wires a Sync to its collaborators.
type SyncConfig struct {
	Document          Document
	Native            History
	Stack             *history.Stack
	ScrollRestoration bool
	BeforeRender      func()
	AfterRender       func()
	Logger            *logging.Logger
}

// Sync applies resolved entries to the document: it updates native
// history, records the navigation, sets the title, performs the swap,
// and restores scroll position. It owns the active container reference,
// reassigned exactly once per completed navigation.
type Sync struct {
	doc           Document
	native        History
	stack         *history.Stack
	scrollRestore bool
	beforeRender  func()
	afterRender   func()
	log           *logging.Logger

	mu        sync.Mutex
	container Fragment
}

// NewSync creates a Sync tracking container as the active subtree.
func NewSync(cfg SyncConfig, container Fragment) *Sync {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Sync{
		doc:           cfg.Document,
		native:        cfg.Native,
		stack:         cfg.Stack,
		scrollRestore: cfg.ScrollRestoration,
		beforeRender:  cfg.BeforeRender,
		afterRender:   cfg.AfterRender,
		log:           log,
		container:     container,
	}
}

// Container returns the currently active container fragment. Link
// discovery re-reads it after every swap.
func (s *Sync) Container() Fragment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.container
}

// Apply lands entry in the document. With updateHistory true a new
// native history slot is pushed at the entry's URL; false replaces the
// current slot (back/forward, where the pointer has already moved).
// step carries the traversal distance for scroll restoration; forward
// navigations pass zero and reset to the top.
func (s *Sync) Apply(entry *cache.Entry, state map[string]any, updateHistory bool, step int) error {
	frag, ok := entry.Content.(Fragment)
	if !ok || frag.Empty() {
		return ErrBadFragment
	}

	cloned := CloneState(state)
	if updateHistory {
		s.native.Push(cloned, entry.URL)
	} else {
		s.native.Replace(cloned, entry.URL)
	}

	// Scroll is captured at record time, before the swap moves it.
	s.stack.Record(history.Entry{
		URL:    entry.URL,
		Title:  entry.Title,
		State:  cloned,
		Scroll: s.doc.ScrollOffset(),
	})

	s.doc.SetTitle(entry.Title)

	// Arm the watch before swapping so the notification cannot be lost
	// when the document applies the replacement synchronously.
	s.doc.OnNextInsertion(func() {
		if s.afterRender != nil {
			s.afterRender()
		}
	})

	if s.beforeRender != nil {
		s.beforeRender()
	}

	old := s.Container()
	if err := s.doc.Replace(old, frag); err != nil {
		return err
	}

	s.mu.Lock()
	s.container = frag
	s.mu.Unlock()

	s.restoreScroll(step)

	s.log.Debug("content swapped",
		zap.String("url", entry.URL),
		zap.Bool("push", updateHistory),
		zap.Int("step", step),
	)
	return nil
}

// restoreScroll applies the recorded offset on a backward traversal and
// resets to the top otherwise. A walk that outruns the trimmed stack
// leaves the position alone.
func (s *Sync) restoreScroll(step int) {
	if !s.scrollRestore {
		return
	}
	if step < 0 {
		if offset, ok := s.stack.OffsetBack(step); ok {
			s.doc.ScrollTo(offset)
		}
		return
	}
	s.doc.ScrollTo(0)
}

// CloneState deep-copies a history state map through a JSON round-trip,
// mirroring the serialization the native history layer applies. Nil in,
// nil out.
func CloneState(state map[string]any) map[string]any {
	if state == nil {
		return nil
	}
	raw, err := sonic.Marshal(state)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
