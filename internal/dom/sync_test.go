package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softnav/softnav/internal/cache"
	"github.com/softnav/softnav/internal/history"
)

const aboutPage = `<!DOCTYPE html>
<html>
<head><title>About</title></head>
<body><main id="content"><p>about page</p></main></body>
</html>`

type syncFixture struct {
	doc    *MemDocument
	native *MemHistory
	stack  *history.Stack
	sync   *Sync
	order  *[]string
}

func newSyncFixture(t *testing.T, scrollRestore bool) *syncFixture {
	t.Helper()

	doc, err := NewMemDocument(homePage)
	require.NoError(t, err)
	container, ok := doc.Query("#content")
	require.True(t, ok)

	native := NewMemHistory(nil, "/")
	stack := history.New(10, history.Entry{URL: "/", Title: "Home"})

	var order []string
	s := NewSync(SyncConfig{
		Document:          doc,
		Native:            native,
		Stack:             stack,
		ScrollRestoration: scrollRestore,
		BeforeRender:      func() { order = append(order, "before-render") },
		AfterRender:       func() { order = append(order, "after-render") },
	}, container)

	return &syncFixture{doc: doc, native: native, stack: stack, sync: s, order: &order}
}

func aboutEntry(t *testing.T) *cache.Entry {
	t.Helper()
	return &cache.Entry{
		URL:     "/about",
		Title:   "About",
		Content: parseFragmentFromPage(t, aboutPage, "#content"),
	}
}

func TestApplyForwardNavigation(t *testing.T) {
	f := newSyncFixture(t, true)
	f.doc.ScrollTo(640) // reading position on the page being left

	state := map[string]any{"source": "click"}
	require.NoError(t, f.sync.Apply(aboutEntry(t), state, true, 0))

	// Native history gained a slot at the destination.
	assert.Equal(t, 2, f.native.Len())
	assert.Equal(t, "/about", f.native.Current().URL)
	assert.Equal(t, "click", f.native.Current().State["source"])

	// The stack recorded the navigation with the scroll captured at
	// record time.
	assert.Equal(t, 2, f.stack.Len())
	top, _ := f.stack.Top()
	assert.Equal(t, "/about", top.URL)
	assert.Equal(t, "About", top.Title)
	assert.Equal(t, 640.0, top.Scroll)

	// Document updated: title, content, scroll reset to top.
	assert.Equal(t, "About", f.doc.Title())
	live, ok := f.doc.Query("#content")
	require.True(t, ok)
	assert.Equal(t, "about page", live.Text())
	assert.Zero(t, f.doc.ScrollOffset())

	// Hooks fired in order around the swap.
	assert.Equal(t, []string{"before-render", "after-render"}, *f.order)

	// Active container reference was reassigned.
	assert.Equal(t, "about page", f.sync.Container().Text())
}

func TestApplyBackwardNavigationRestoresScroll(t *testing.T) {
	f := newSyncFixture(t, true)

	// Leave home (scrolled to 500) for /about.
	f.doc.ScrollTo(500)
	require.NoError(t, f.sync.Apply(aboutEntry(t), nil, true, 0))

	// Traverse back to home: replace mode, one step back. The entry one
	// step back from the new top carries home's 500.
	home := &cache.Entry{
		URL:     "/",
		Title:   "Home",
		Content: parseFragmentFromPage(t, homePage, "#content"),
	}
	require.NoError(t, f.sync.Apply(home, nil, false, -1))

	assert.Equal(t, 500.0, f.doc.ScrollOffset())
	assert.Equal(t, 2, f.native.Len(), "back traversal replaces, never pushes")
	assert.Equal(t, "/", f.native.Current().URL)
	assert.Equal(t, 3, f.stack.Len(), "traversals still record stack entries")
}

func TestApplyScrollRestorationDisabled(t *testing.T) {
	f := newSyncFixture(t, false)
	f.doc.ScrollTo(333)

	require.NoError(t, f.sync.Apply(aboutEntry(t), nil, true, 0))
	assert.Equal(t, 333.0, f.doc.ScrollOffset(), "scroll untouched when restoration is off")
}

func TestApplyStateIsCloned(t *testing.T) {
	f := newSyncFixture(t, true)

	state := map[string]any{"k": "v"}
	require.NoError(t, f.sync.Apply(aboutEntry(t), state, true, 0))

	state["k"] = "mutated"
	assert.Equal(t, "v", f.native.Current().State["k"])
	top, _ := f.stack.Top()
	assert.Equal(t, "v", top.State["k"])
}

func TestApplyRejectsForeignContent(t *testing.T) {
	f := newSyncFixture(t, true)

	err := f.sync.Apply(&cache.Entry{URL: "/x", Content: "not a fragment"}, nil, true, 0)
	assert.ErrorIs(t, err, ErrBadFragment)

	// Nothing changed.
	assert.Equal(t, 1, f.native.Len())
	assert.Equal(t, 1, f.stack.Len())
	live, _ := f.doc.Query("#content")
	assert.Equal(t, "welcome home", live.Text())
}

func TestApplyCachedNodesSurviveRoundTrip(t *testing.T) {
	f := newSyncFixture(t, true)

	about := aboutEntry(t)
	home := &cache.Entry{URL: "/", Title: "Home", Content: f.sync.Container()}

	require.NoError(t, f.sync.Apply(about, nil, true, 0))
	require.NoError(t, f.sync.Apply(home, nil, false, -1))
	require.NoError(t, f.sync.Apply(about, nil, true, 0))

	live, ok := f.doc.Query("#content")
	require.True(t, ok)
	assert.Equal(t, "about page", live.Text(), "cached nodes can be re-adopted repeatedly")
}
