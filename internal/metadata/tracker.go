package metadata

import (
	"slices"
	"sync"
)

// Tracker holds the current entity-state fields of one entity.
// Written on the logic loop, read from connection goroutines.
type Tracker struct {
	mu      sync.RWMutex
	entries map[byte]Value
}

// NewTracker creates a tracker with the base fields of a standing entity.
func NewTracker() *Tracker {
	return &Tracker{
		entries: map[byte]Value{
			IndexFlags: Byte(0),
			IndexPose:  PoseStanding,
		},
	}
}

// Get returns the value stored at index.
func (t *Tracker) Get(index byte) (Value, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[index]
	return v, ok
}

// Byte returns the byte stored at index, false if absent or not a byte.
func (t *Tracker) Byte(index byte) (byte, bool) {
	v, ok := t.Get(index)
	if !ok {
		return 0, false
	}
	b, ok := v.(Byte)
	return byte(b), ok
}

// Set stores v at index and reports whether the stored value changed.
func (t *Tracker) Set(index byte, v Value) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.entries[index]; ok && old == v {
		return false
	}
	t.entries[index] = v
	return true
}

// SetFlag sets or clears bits in the flags byte. Returns the new flags and whether they changed.
func (t *Tracker) SetFlag(bits byte, on bool) (byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, _ := t.entries[IndexFlags].(Byte)
	next := cur
	if on {
		next |= Byte(bits)
	} else {
		next &^= Byte(bits)
	}
	if next == cur {
		return byte(cur), false
	}
	t.entries[IndexFlags] = next
	return byte(next), true
}

// Snapshot returns all fields ordered by index.
func (t *Tracker) Snapshot() List {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(List, 0, len(t.entries))
	for idx, v := range t.entries {
		out = append(out, Entry{Index: idx, Value: v})
	}
	slices.SortFunc(out, func(a, b Entry) int { return int(a.Index) - int(b.Index) })
	return out
}
