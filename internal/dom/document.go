package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Document is the engine's view of the host page. Implementations own
// the real rendering layer; the engine only queries, replaces, and
// observes through this interface.
type Document interface {
	// Query locates a subtree by selector (CSS, or XPath with an
	// "xpath:" prefix).
	Query(selector string) (Fragment, bool)

	// Replace swaps old for next in the document. The nodes of next
	// become the live subtree; a failed replace leaves old in place.
	Replace(old, next Fragment) error

	// Title and SetTitle read and set the document title.
	Title() string
	SetTitle(title string)

	// ScrollOffset and ScrollTo read and move the vertical scroll
	// position.
	ScrollOffset() float64
	ScrollTo(offset float64)

	// OnNextInsertion arms a one-shot notification raised when the next
	// replacement has landed. Exactly one callback fires per swap; the
	// watch disarms itself after firing.
	OnNextInsertion(fn func())
}

// History is the native history layer. The engine is the sole writer of
// state during its own navigations; externally triggered back/forward
// traversals re-enter the engine through its pop-state path.
type History interface {
	Push(state map[string]any, url string)
	Replace(state map[string]any, url string)
}

// Select resolves selector against doc, handling the "xpath:" prefix.
// CSS selection returns the first match only.
func Select(doc *goquery.Document, selector string) (*goquery.Selection, bool) {
	if expr, ok := strings.CutPrefix(selector, "xpath:"); ok {
		root := doc.Selection.Nodes[0]
		node, err := htmlquery.Query(root, expr)
		if err != nil || node == nil {
			return nil, false
		}
		return goquery.NewDocumentFromNode(node).Selection, true
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return sel, true
}
