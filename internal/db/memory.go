package db

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryPlayerData keeps player data in process memory. Nothing survives a restart.
type MemoryPlayerData struct {
	mu   sync.RWMutex
	data map[uuid.UUID]PlayerData
}

// NewMemoryPlayerData creates an empty in-memory repository.
func NewMemoryPlayerData() *MemoryPlayerData {
	return &MemoryPlayerData{data: make(map[uuid.UUID]PlayerData)}
}

// Load implements PlayerDataRepository.
func (r *MemoryPlayerData) Load(_ context.Context, id uuid.UUID) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]byte)
	if d, ok := r.data[id]; ok {
		for k, v := range d.Values {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

// Save implements PlayerDataRepository.
func (r *MemoryPlayerData) Save(_ context.Context, d PlayerData) error {
	values := make(map[string][]byte, len(d.Values))
	for k, v := range d.Values {
		values[k] = append([]byte(nil), v...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[d.UUID] = PlayerData{UUID: d.UUID, Name: d.Name, Values: values}
	return nil
}

// Close implements PlayerDataRepository.
func (r *MemoryPlayerData) Close() error { return nil }

// Len returns the number of stored players.
func (r *MemoryPlayerData) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Keys returns the stored keys of a player.
func (r *MemoryPlayerData) Keys(id uuid.UUID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.data[id].Values)
}

func sortedKeys(m map[string][]byte) []string {
	return slices.Sorted(maps.Keys(m))
}
