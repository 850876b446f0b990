package cache

import "time"

// LayeredCache combines an in-memory cache with a disk cache. Reads hit
// memory first and promote disk entries; writes go to both layers.
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memory *MemoryCache, disk *DiskCache) *LayeredCache {
	return &LayeredCache{
		memory: memory,
		disk:   disk,
	}
}

// Get retrieves a value, checking memory first, then disk
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if value, ok := c.memory.Get(key); ok {
		return value, true
	}

	if value, ok := c.disk.Get(key); ok {
		// Promote so later lookups skip the disk read.
		_ = c.memory.Set(key, value, 0)
		return value, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	memErr := c.memory.Delete(key)
	diskErr := c.disk.Delete(key)
	if memErr != nil {
		return memErr
	}
	return diskErr
}

// Clear removes all entries from both layers
func (c *LayeredCache) Clear() error {
	memErr := c.memory.Clear()
	diskErr := c.disk.Clear()
	if memErr != nil {
		return memErr
	}
	return diskErr
}
