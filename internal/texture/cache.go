package texture

import (
	"image"
	"sort"
	"sync"
)

// Resolver resolves a shader name to its decoded diffuse texture.
type Resolver interface {
	Resolve(shader string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache keyed by file path. Shaders
// without a decodable texture are remembered so they are reported once.
type Cache struct {
	mu      sync.RWMutex
	items   map[string]*image.NRGBA // nil image: load failed
	missing map[string]struct{}
	index   *Index
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items:   make(map[string]*image.NRGBA),
		missing: make(map[string]struct{}),
		index:   index,
	}
}

// Resolve loads and caches the diffuse texture for a shader. Returns nil
// if none is indexed or it fails to decode.
func (c *Cache) Resolve(shader string) *image.NRGBA {
	path, ok := c.index.ResolvePath(shader)
	if !ok {
		c.markMissing(shader)
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		if img == nil {
			c.markMissing(shader)
		}
		return img
	}

	// Slow path: load from disk
	img, err := LoadTexture(path)
	if err != nil {
		img = nil
	}

	// Write lock with double-check
	c.mu.Lock()
	if prev, exists := c.items[path]; exists {
		img = prev
	} else {
		c.items[path] = img
	}
	if img == nil {
		c.missing[shader] = struct{}{}
	}
	c.mu.Unlock()

	return img
}

func (c *Cache) markMissing(shader string) {
	c.mu.Lock()
	c.missing[shader] = struct{}{}
	c.mu.Unlock()
}

// Missing returns the shaders Resolve could not serve, sorted.
func (c *Cache) Missing() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.missing))
	for s := range c.missing {
		out = append(out, s)
	}
	c.mu.RUnlock()
	sort.Strings(out)
	return out
}
