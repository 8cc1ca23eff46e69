package media

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Mapping is the cumulative old-to-new URL map produced by a run. Keys are
// the raw URLs as they appear in content; every dimensioned variant of one
// original maps to the same relocated URL.
type Mapping map[string]string

// Cache is the per-run relocation cache. It is created per import run and
// passed through the pipeline, so concurrent runs never share state.
//
// Two layers of dedup: byURL collapses repeated references to one canonical
// URL, byKey collapses identical bytes fetched from different URLs. The
// singleflight group guarantees a cache miss triggers exactly one
// fetch+upload per canonical URL even under concurrent access.
type Cache struct {
	mu    sync.Mutex
	byURL map[string]string // canonical URL -> public URL
	byKey map[string]string // content-addressed storage key -> public URL

	group singleflight.Group
}

// NewCache returns an empty relocation cache.
func NewCache() *Cache {
	return &Cache{
		byURL: make(map[string]string),
		byKey: make(map[string]string),
	}
}

func (c *Cache) lookupURL(canonical string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.byURL[canonical]
	return u, ok
}

func (c *Cache) storeURL(canonical, publicURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byURL[canonical] = publicURL
}

func (c *Cache) lookupKey(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.byKey[key]
	return u, ok
}

func (c *Cache) storeKey(key, publicURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey[key] = publicURL
}

// Len returns the number of resolved canonical URLs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byURL)
}
