package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/claimcheck/internal/model"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	_, ok := c.Get("https://example.com/a")
	assert.False(t, ok)

	c.Set("https://example.com/a", model.Page{Title: "A", Content: "alpha"})

	page, ok := c.Get("https://example.com/a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", page.Content)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_KeyNormalisation(t *testing.T) {
	c := NewMemoryCache(0)
	c.Set("HTTPS://Example.COM/a#section", model.Page{Title: "A"})

	_, ok := c.Get("https://example.com/a")
	assert.True(t, ok, "scheme/host case and fragment should not matter")

	_, ok = c.Get("https://example.com/A")
	assert.False(t, ok, "path case matters")
}

func TestMemoryCache_DeleteClear(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	c.Set("https://a.example", model.Page{})
	c.Set("https://b.example", model.Page{})

	c.Delete("https://a.example")
	_, ok := c.Get("https://a.example")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(20 * time.Millisecond)
	c.Set("https://example.com", model.Page{})

	time.Sleep(50 * time.Millisecond)
	_, ok := c.Get("https://example.com")
	assert.False(t, ok)
}

func TestCacheKey(t *testing.T) {
	k := CacheKey("https://example.com")
	assert.Contains(t, k, "claimcheck:v1:")
	assert.Len(t, k, len("claimcheck:v1:")+64)
	assert.NotEqual(t, k, CacheKey("https://example.org"))
}
