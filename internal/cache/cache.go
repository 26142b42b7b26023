// Package cache provides the process-wide read-through option cache.
package cache

import "sync"

// Cache is a string key/value cache guarded by a mutex.
type Cache struct {
	mu sync.RWMutex
	m  map[string]string
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{m: make(map[string]string)}
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

// Set stores a value under key.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

// Delete removes a single entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

// Flush drops every entry. Called after a table swap so subsequent reads
// observe the swapped tables.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]string)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
