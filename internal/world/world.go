package world

import (
	"fmt"
	"strings"
	"sync"

	"github.com/udisondev/sleeper/internal/model"
)

// World is the registry of online player entities.
// Mutations happen on the logic loop; lookups come from any goroutine
// (outbound interceptors resolve entity ids on connection writers).
type World struct {
	ids *EntityIDGenerator

	mu      sync.RWMutex
	byID    map[int32]*model.Player
	byName  map[string]*model.Player // lowercase name → player
	spawnAt model.Location
}

// New creates an empty world with the given spawn point.
func New(spawn model.Location) *World {
	return &World{
		ids:     NewEntityIDGenerator(),
		byID:    make(map[int32]*model.Player),
		byName:  make(map[string]*model.Player),
		spawnAt: spawn,
	}
}

// Spawn returns the location new players appear at.
func (w *World) Spawn() model.Location {
	return w.spawnAt
}

// NewPlayer allocates an entity id and creates a player at the spawn point.
// The player is not registered until AddPlayer.
func (w *World) NewPlayer(name string) (*model.Player, error) {
	p, err := model.NewPlayer(w.ids.Next(), name, w.spawnAt)
	if err != nil {
		return nil, fmt.Errorf("creating player: %w", err)
	}
	return p, nil
}

// AddPlayer registers an online player.
// Returns error if a player with the same name (case-insensitive) or id is already online.
func (w *World) AddPlayer(p *model.Player) error {
	key := strings.ToLower(p.Name())

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.byName[key]; ok {
		return fmt.Errorf("player %q already online", p.Name())
	}
	if _, ok := w.byID[p.EntityID()]; ok {
		return fmt.Errorf("entity id %d already in use", p.EntityID())
	}
	w.byID[p.EntityID()] = p
	w.byName[key] = p
	return nil
}

// RemovePlayer unregisters a player. No-op if absent.
func (w *World) RemovePlayer(p *model.Player) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if cur, ok := w.byID[p.EntityID()]; ok && cur == p {
		delete(w.byID, p.EntityID())
		delete(w.byName, strings.ToLower(p.Name()))
	}
}

// PlayerByEntityID returns the online player with the given entity id.
func (w *World) PlayerByEntityID(id int32) (*model.Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.byID[id]
	return p, ok
}

// PlayerByName returns the online player with the given name (case-insensitive).
func (w *World) PlayerByName(name string) (*model.Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.byName[strings.ToLower(name)]
	return p, ok
}

// PlayerCount returns the number of online players.
func (w *World) PlayerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.byID)
}

// ForEachPlayer iterates over online players.
// Iteration runs over a snapshot, fn may call back into World.
// If fn returns false, iteration stops.
func (w *World) ForEachPlayer(fn func(*model.Player) bool) {
	w.mu.RLock()
	players := make([]*model.Player, 0, len(w.byID))
	for _, p := range w.byID {
		players = append(players, p)
	}
	w.mu.RUnlock()

	for _, p := range players {
		if !fn(p) {
			return
		}
	}
}
