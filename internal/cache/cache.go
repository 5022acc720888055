package cache

import (
	"container/list"
	"sync"
)

// Entry is one cached page: the URL it was resolved from, the document
// title, and the extracted content fragment. Content belongs to the
// document layer; the cache stores and returns it without inspection.
type Entry struct {
	URL     string
	Title   string
	Content any
}

// EvictFunc is called with every entry removed to make room or cleared.
type EvictFunc func(url string, entry *Entry)

// Cache is a bounded LRU store of page entries keyed by URL.
type Cache struct {
	capacity int
	onEvict  EvictFunc

	mu    sync.Mutex
	order *list.List // front = least recent, back = most recent
	items map[string]*list.Element
}

type item struct {
	url   string
	entry *Entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithEvictFunc registers a callback invoked for every evicted entry.
func WithEvictFunc(fn EvictFunc) Option {
	return func(c *Cache) {
		c.onEvict = fn
	}
}

// New creates a cache holding at most capacity entries. Capacity is fixed
// for the lifetime of the cache; a capacity of zero or less disables
// retention (Put passes entries through without keeping them).
func New(capacity int, opts ...Option) *Cache {
	c := &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry stored under url and promotes it to the
// most-recent position. A miss has no side effect.
func (c *Cache) Get(url string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[url]
	if !ok {
		return nil, false
	}
	c.order.MoveToBack(el)
	return el.Value.(*item).entry, true
}

// Put stores entry under url at the most-recent position, evicting the
// least-recent entry first when the cache is full. Re-putting an existing
// url replaces it and still lands at the most-recent position. The stored
// (or, with retention disabled, pass-through) entry is returned.
func (c *Cache) Put(url string, entry *Entry) *Entry {
	if c.capacity <= 0 {
		return entry
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[url]; ok {
		c.removeElement(el)
	}
	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.items[url] = c.order.PushBack(&item{url: url, entry: entry})
	return entry
}

// LeastRecent returns the entry least recently touched, or false when the
// cache is empty. Inspection only; recency is not affected.
func (c *Cache) LeastRecent() (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el := c.order.Front()
	if el == nil {
		return nil, false
	}
	return el.Value.(*item).entry, true
}

// MostRecent returns the entry most recently touched, or false when the
// cache is empty. Inspection only; recency is not affected.
func (c *Cache) MostRecent() (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el := c.order.Back()
	if el == nil {
		return nil, false
	}
	return el.Value.(*item).entry, true
}

// Len returns the number of retained entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every retained entry, invoking the eviction callback for each.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for el := c.order.Front(); el != nil; el = c.order.Front() {
		c.removeElement(el)
		if c.onEvict != nil {
			it := el.Value.(*item)
			c.onEvict(it.url, it.entry)
		}
	}
}

// evictOldest removes the least-recent entry. Caller holds the lock.
func (c *Cache) evictOldest() {
	el := c.order.Front()
	if el == nil {
		return
	}
	it := el.Value.(*item)
	c.removeElement(el)
	if c.onEvict != nil {
		c.onEvict(it.url, it.entry)
	}
}

// removeElement unlinks el from both the order list and the index.
// Caller holds the lock.
func (c *Cache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*item).url)
}
