// Package dom holds the engine's side of the document boundary.
//
// The engine never touches a global document or history object. A host
// injects a Document (query, replace, title, scroll, one-shot insertion
// notification) and a History (push/replace-state), and the Sync
// component drives them: it applies a fetched entry to the document,
// records the navigation, and restores scroll position. Fragment is the
// detached content subtree that travels between the fetch pipeline, the
// content cache, and the document.
//
// MemDocument is a goquery-backed implementation used by tests and the
// demo host; its insertion notification fires synchronously right after
// a replacement lands, since the in-memory swap is synchronous.
package dom
