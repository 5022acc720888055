package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Fragment is a detached content subtree extracted from a fetched page.
// The content cache stores fragments without inspecting them; documents
// render them on insertion.
type Fragment struct {
	sel *goquery.Selection
}

// NewFragment wraps a goquery selection as a fragment.
func NewFragment(sel *goquery.Selection) Fragment {
	return Fragment{sel: sel}
}

// ParseFragment parses markup into a fragment. The markup is treated as
// body content; the first element child becomes the fragment root, or
// the whole body when there is no single root.
func ParseFragment(markup string) (Fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Fragment{}, err
	}
	body := doc.Find("body").First()
	if children := body.Children(); children.Length() == 1 {
		return Fragment{sel: children.First()}, nil
	}
	return Fragment{sel: body}, nil
}

// HTML renders the fragment's outer markup.
func (f Fragment) HTML() (string, error) {
	if f.sel == nil {
		return "", nil
	}
	var b strings.Builder
	for _, node := range f.sel.Nodes {
		if err := html.Render(&b, node); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// Text returns the fragment's text content with surrounding space trimmed.
func (f Fragment) Text() string {
	if f.sel == nil {
		return ""
	}
	return strings.TrimSpace(f.sel.Text())
}

// Selection exposes the underlying goquery selection for link discovery
// and document implementations.
func (f Fragment) Selection() *goquery.Selection {
	return f.sel
}

// Empty reports whether the fragment holds no nodes.
func (f Fragment) Empty() bool {
	return f.sel == nil || f.sel.Length() == 0
}
