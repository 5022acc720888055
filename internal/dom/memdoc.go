package dom

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// MemDocument is an in-memory Document backed by a goquery tree. Swaps
// are synchronous, so the insertion notification fires immediately
// after a replacement lands.
type MemDocument struct {
	mu        sync.Mutex
	doc       *goquery.Document
	title     string
	scroll    float64
	insertion func()
}

// NewMemDocument parses markup into an in-memory document.
func NewMemDocument(markup string) (*MemDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return &MemDocument{
		doc:   doc,
		title: doc.Find("title").First().Text(),
	}, nil
}

// Query locates a subtree by selector.
func (d *MemDocument) Query(selector string) (Fragment, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel, ok := Select(d.doc, selector)
	if !ok {
		return Fragment{}, false
	}
	return NewFragment(sel), true
}

// Replace swaps old for next. The cached nodes of next are adopted into
// the live tree, so a later navigation away from this page hands the
// same nodes back to the cache; re-inserting an entry that is already
// the live container is a no-op apart from the insertion notification.
func (d *MemDocument) Replace(old, next Fragment) error {
	d.mu.Lock()

	oldSel := old.Selection()
	nextSel := next.Selection()
	if oldSel == nil || nextSel == nil || len(nextSel.Nodes) == 0 {
		d.mu.Unlock()
		return ErrBadFragment
	}

	if len(oldSel.Nodes) == 1 && len(nextSel.Nodes) == 1 && oldSel.Nodes[0] == nextSel.Nodes[0] {
		d.mu.Unlock()
		d.notifyInsertion()
		return nil
	}

	// Detach the incoming nodes from whichever tree still holds them.
	for _, node := range nextSel.Nodes {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
	oldSel.ReplaceWithNodes(nextSel.Nodes...)

	d.mu.Unlock()
	d.notifyInsertion()
	return nil
}

// Title returns the current document title.
func (d *MemDocument) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// SetTitle sets the document title, updating the title element when the
// tree has one.
func (d *MemDocument) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.title = title
	d.doc.Find("title").First().SetText(title)
}

// ScrollOffset returns the tracked vertical scroll position.
func (d *MemDocument) ScrollOffset() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scroll
}

// ScrollTo moves the tracked vertical scroll position.
func (d *MemDocument) ScrollTo(offset float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scroll = offset
}

// OnNextInsertion arms the one-shot insertion watch.
func (d *MemDocument) OnNextInsertion(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertion = fn
}

// HTML renders the whole document, for assertions and the demo.
func (d *MemDocument) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Html()
}

func (d *MemDocument) notifyInsertion() {
	d.mu.Lock()
	fn := d.insertion
	d.insertion = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}
