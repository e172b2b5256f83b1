package catalog

import "sync"

// ContentCache memoizes one derived content string. Invalidation is
// explicit: only Reset discards the cached value, so the owner decides
// which signals force re-derivation.
type ContentCache struct {
	mu      sync.Mutex
	content string
	valid   bool
}

// Get returns the cached content, deriving it first when absent.
func (c *ContentCache) Get(derive func() string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid {
		c.content = derive()
		c.valid = true
	}
	return c.content
}

// Reset discards the cached content. The next Get re-derives.
func (c *ContentCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = ""
	c.valid = false
}
