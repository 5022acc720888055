package softnav

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ShouldIntercept reports whether a link activation for href belongs to
// this engine: same-origin http(s) destinations only, and never
// fragment-only jumps within the current page. Hosts consult it before
// forwarding a click to Navigate.
func (e *Engine) ShouldIntercept(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	resolved := e.base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return false
	}
	return resolved.Scheme == e.base.Scheme && resolved.Host == e.base.Host
}

// Links returns the absolute URLs of qualifying anchors in the active
// container, in document order without duplicates. Hosts call it after
// each swap to re-arm their listeners.
func (e *Engine) Links() []string {
	sel := e.Container().Selection()
	if sel == nil {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if !anchorQualifies(a) {
			return
		}
		href, _ := a.Attr("href")
		if !e.ShouldIntercept(href) {
			return
		}
		abs, err := e.resolve(href)
		if err != nil {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	})
	return out
}

// anchorQualifies applies the attribute-level policy: anchors that opt
// out, download links, and links targeting another browsing context are
// left to the browser.
func anchorQualifies(a *goquery.Selection) bool {
	if _, optOut := a.Attr("data-no-soft"); optOut {
		return false
	}
	if _, download := a.Attr("download"); download {
		return false
	}
	if target, ok := a.Attr("target"); ok && target != "" && target != "_self" {
		return false
	}
	return true
}
