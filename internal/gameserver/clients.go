package gameserver

import (
	"strings"
	"sync"

	"github.com/udisondev/sleeper/internal/model"
)

// ClientManager manages all connected clients.
// Provides registration, lookup, and broadcast functionality.
// Thread-safe for concurrent access.
type ClientManager struct {
	mu      sync.RWMutex
	clients map[*GameClient]struct{}

	// playerClients maps Player to GameClient for efficient broadcast
	// Updated when player enters/leaves world
	playerClients map[*model.Player]*GameClient

	// entityIndex maps entity id to GameClient for O(1) lookup
	entityIndex map[int32]*GameClient
}

// NewClientManager creates a new client manager.
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:       make(map[*GameClient]struct{}, 64),
		playerClients: make(map[*model.Player]*GameClient, 64),
		entityIndex:   make(map[int32]*GameClient, 64),
	}
}

// Register adds a client to the manager.
// Called right after the connection is accepted.
func (cm *ClientManager) Register(client *GameClient) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.clients[client] = struct{}{}
}

// Unregister removes a client and its player association.
// Called when client disconnects.
func (cm *ClientManager) Unregister(client *GameClient) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	delete(cm.clients, client)
	if player := client.ActivePlayer(); player != nil && cm.playerClients[player] == client {
		delete(cm.playerClients, player)
		delete(cm.entityIndex, player.EntityID())
	}
}

// RegisterPlayer associates a Player with a GameClient.
// Called when player enters world.
func (cm *ClientManager) RegisterPlayer(player *model.Player, client *GameClient) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.playerClients[player] = client
	cm.entityIndex[player.EntityID()] = client
}

// UnregisterPlayer removes Player→Client association.
// Called when player leaves world.
func (cm *ClientManager) UnregisterPlayer(player *model.Player) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.playerClients, player)
	delete(cm.entityIndex, player.EntityID())
}

// GetClientByPlayer returns the client for given player.
// Returns nil if not found.
func (cm *ClientManager) GetClientByPlayer(player *model.Player) *GameClient {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.playerClients[player]
}

// GetClientByEntityID returns the client controlling the given entity.
// Returns nil if not found or the entity is not an online player.
func (cm *ClientManager) GetClientByEntityID(entityID int32) *GameClient {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.entityIndex[entityID]
}

// FindPlayerByName finds an online player by name (case-insensitive).
func (cm *ClientManager) FindPlayerByName(name string) *model.Player {
	var found *model.Player
	cm.ForEachPlayer(func(player *model.Player, _ *GameClient) bool {
		if strings.EqualFold(player.Name(), name) {
			found = player
			return false
		}
		return true
	})
	return found
}

// Count returns total number of connected clients.
func (cm *ClientManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// PlayerCount returns number of players in world.
func (cm *ClientManager) PlayerCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.playerClients)
}

// ForEachClient iterates over all connected clients.
// fn receives GameClient pointer. If fn returns false, iteration stops.
// fn must not call back into ClientManager mutators.
func (cm *ClientManager) ForEachClient(fn func(*GameClient) bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	for client := range cm.clients {
		if !fn(client) {
			return
		}
	}
}

// ForEachPlayer iterates over all players in world.
// fn receives Player and GameClient pointers. If fn returns false, iteration stops.
func (cm *ClientManager) ForEachPlayer(fn func(*model.Player, *GameClient) bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	for player, client := range cm.playerClients {
		if !fn(player, client) {
			return
		}
	}
}
