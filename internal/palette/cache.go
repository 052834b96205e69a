package palette

import "sync"

// Cache loads palette files once and shares them between workers.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
}

type cacheEntry struct {
	pal Palette
	err error
}

func NewCache() *Cache {
	return &Cache{items: make(map[string]*cacheEntry)}
}

// Get returns the palette stored at path, loading it on first use. Load
// errors are cached as well.
func (c *Cache) Get(path string) (Palette, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.pal, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	pal, err := Load(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.pal, entry.err
	}
	c.items[path] = &cacheEntry{pal: pal, err: err}
	return pal, err
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
