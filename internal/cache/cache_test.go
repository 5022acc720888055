package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(url string) *Entry {
	return &Entry{URL: url, Title: "title of " + url, Content: "fragment:" + url}
}

func TestCachePutGet(t *testing.T) {
	c := New(4)

	stored := c.Put("/a", entry("/a"))
	assert.Equal(t, "/a", stored.URL)

	got, ok := c.Get("/a")
	require.True(t, ok)
	assert.Same(t, stored, got)

	_, ok = c.Get("/missing")
	assert.False(t, ok)
}

func TestCacheEvictsOldestOnOverflow(t *testing.T) {
	c := New(2)
	c.Put("/a", entry("/a"))
	c.Put("/b", entry("/b"))
	c.Put("/c", entry("/c"))

	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("/a")
	assert.False(t, ok, "oldest entry should have been evicted")

	_, ok = c.Get("/b")
	assert.True(t, ok)
	_, ok = c.Get("/c")
	assert.True(t, ok)
}

func TestCacheGetPromotesRecency(t *testing.T) {
	c := New(2)
	c.Put("/a", entry("/a"))
	c.Put("/b", entry("/b"))

	// Touching /a makes /b the eviction candidate.
	_, ok := c.Get("/a")
	require.True(t, ok)

	c.Put("/c", entry("/c"))

	_, ok = c.Get("/b")
	assert.False(t, ok, "/b was least recently touched and should be gone")
	_, ok = c.Get("/a")
	assert.True(t, ok)
	_, ok = c.Get("/c")
	assert.True(t, ok)
}

func TestCacheRePutLandsMostRecent(t *testing.T) {
	c := New(2)
	c.Put("/a", entry("/a"))
	c.Put("/b", entry("/b"))
	c.Put("/a", entry("/a"))
	c.Put("/c", entry("/c"))

	_, ok := c.Get("/b")
	assert.False(t, ok)
	_, ok = c.Get("/a")
	assert.True(t, ok)
}

func TestCacheLeastAndMostRecent(t *testing.T) {
	c := New(3)

	_, ok := c.LeastRecent()
	assert.False(t, ok)
	_, ok = c.MostRecent()
	assert.False(t, ok)

	c.Put("/a", entry("/a"))
	c.Put("/b", entry("/b"))
	c.Put("/c", entry("/c"))

	oldest, ok := c.LeastRecent()
	require.True(t, ok)
	assert.Equal(t, "/a", oldest.URL)

	newest, ok := c.MostRecent()
	require.True(t, ok)
	assert.Equal(t, "/c", newest.URL)

	// A read reorders too.
	c.Get("/a")
	oldest, _ = c.LeastRecent()
	assert.Equal(t, "/b", oldest.URL)
	newest, _ = c.MostRecent()
	assert.Equal(t, "/a", newest.URL)
}

func TestCacheBoundHeldUnderMixedOps(t *testing.T) {
	const capacity = 4
	c := New(capacity)

	for i := 0; i < 32; i++ {
		url := fmt.Sprintf("/page/%d", i%7)
		if i%3 == 0 {
			c.Get(url)
		} else {
			c.Put(url, entry(url))
		}
		assert.LessOrEqual(t, c.Len(), capacity)
	}
}

func TestCacheZeroCapacityDisablesRetention(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
	}{
		{name: "zero", capacity: 0},
		{name: "negative", capacity: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.capacity)

			stored := c.Put("/a", entry("/a"))
			require.NotNil(t, stored, "entry is still returned to the caller")
			assert.Equal(t, "/a", stored.URL)

			_, ok := c.Get("/a")
			assert.False(t, ok, "nothing is retained")
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestCacheEvictCallback(t *testing.T) {
	var evicted []string
	c := New(2, WithEvictFunc(func(url string, _ *Entry) {
		evicted = append(evicted, url)
	}))

	c.Put("/a", entry("/a"))
	c.Put("/b", entry("/b"))
	c.Put("/c", entry("/c"))
	assert.Equal(t, []string{"/a"}, evicted)

	c.Clear()
	assert.ElementsMatch(t, []string{"/a", "/b", "/c"}, evicted)
	assert.Equal(t, 0, c.Len())
}
