package model

import (
	"maps"
	"sync"
	"sync/atomic"
)

// DataContainer is the per-entity persistent key/value store.
// Values are raw bytes keyed by NamespacedKey. Safe for concurrent use:
// writes happen on the logic loop, reads also from connection goroutines.
type DataContainer struct {
	mu     sync.RWMutex
	values map[string][]byte
	dirty  atomic.Bool
}

// NewDataContainer creates an empty container.
func NewDataContainer() *DataContainer {
	return &DataContainer{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (c *DataContainer) Get(key NamespacedKey) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key.String()]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// GetByte returns a single-byte value. Values of any other length read as absent.
func (c *DataContainer) GetByte(key NamespacedKey) (byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key.String()]
	if !ok || len(v) != 1 {
		return 0, false
	}
	return v[0], true
}

// Set stores a copy of value under key.
func (c *DataContainer) Set(key NamespacedKey, value []byte) {
	c.mu.Lock()
	c.values[key.String()] = append([]byte(nil), value...)
	c.dirty.Store(true)
	c.mu.Unlock()
}

// SetByte stores a single byte under key.
func (c *DataContainer) SetByte(key NamespacedKey, b byte) {
	c.Set(key, []byte{b})
}

// Has reports whether key is present.
func (c *DataContainer) Has(key NamespacedKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.values[key.String()]
	return ok
}

// Remove deletes key.
func (c *DataContainer) Remove(key NamespacedKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key.String()]; ok {
		delete(c.values, key.String())
		c.dirty.Store(true)
	}
}

// Len returns the number of stored keys.
func (c *DataContainer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}

// Snapshot returns a deep copy of all values keyed by "namespace:key".
func (c *DataContainer) Snapshot() map[string][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]byte, len(c.values))
	for k, v := range c.values {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// Checkpoint returns a snapshot for saving and clears the dirty flag atomically
// with it. Call MarkDirty if the save fails.
func (c *DataContainer) Checkpoint() map[string][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]byte, len(c.values))
	for k, v := range c.values {
		out[k] = append([]byte(nil), v...)
	}
	c.dirty.Store(false)
	return out
}

// Load replaces the contents with values loaded from storage and clears the dirty flag.
func (c *DataContainer) Load(values map[string][]byte) {
	c.mu.Lock()
	c.values = make(map[string][]byte, len(values))
	maps.Copy(c.values, values)
	c.mu.Unlock()
	c.dirty.Store(false)
}

// IsDirty reports whether the container changed since the last Load or MarkClean.
func (c *DataContainer) IsDirty() bool {
	return c.dirty.Load()
}

// MarkDirty flags the container for the next save.
func (c *DataContainer) MarkDirty() {
	c.dirty.Store(true)
}

// MarkClean clears the dirty flag after a successful save.
func (c *DataContainer) MarkClean() {
	c.dirty.Store(false)
}
