package di

import (
	"reflect"
	"sync"
)

// Cache stores singleton instances keyed by registry key.
type Cache interface {
	// Get returns the instance stored for key.
	Get(key reflect.Type) (any, bool)
	// Put stores instance unless an instance is already stored for key, and
	// reports whether it did. A stored instance is never replaced.
	Put(key reflect.Type, instance any) bool
}

// MemoryCache is the default Cache. Writes are race-free and the first
// writer wins, but nothing stops two goroutines from building the same
// uncached singleton at once: both constructors run and the second instance
// is simply not stored.
type MemoryCache struct {
	entries sync.Map
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Get implements Cache.
func (c *MemoryCache) Get(key reflect.Type) (any, bool) {
	return c.entries.Load(key)
}

// Put implements Cache.
func (c *MemoryCache) Put(key reflect.Type, instance any) bool {
	_, loaded := c.entries.LoadOrStore(key, instance)
	return !loaded
}

// Len returns the number of stored instances.
func (c *MemoryCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Reset drops every stored instance. The resolver never calls it; it exists
// for tests.
func (c *MemoryCache) Reset() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
}
