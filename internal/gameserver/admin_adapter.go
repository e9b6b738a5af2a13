package gameserver

import (
	"github.com/udisondev/sleeper/internal/gameserver/serverpackets"
	"github.com/udisondev/sleeper/internal/model"
)

// AdminClientAdapter adapts ClientManager to the commands.ClientManager interface.
// This avoids import cycle between gameserver ↔ admin/commands packages.
type AdminClientAdapter struct {
	cm *ClientManager
}

// NewAdminClientAdapter creates a new adapter.
func NewAdminClientAdapter(cm *ClientManager) *AdminClientAdapter {
	return &AdminClientAdapter{cm: cm}
}

// FindPlayerByName finds an online player by name (case-insensitive).
func (a *AdminClientAdapter) FindPlayerByName(name string) *model.Player {
	return a.cm.FindPlayerByName(name)
}

// ForEachPlayer iterates over all online players.
func (a *AdminClientAdapter) ForEachPlayer(fn func(*model.Player) bool) {
	a.cm.ForEachPlayer(func(player *model.Player, _ *GameClient) bool {
		return fn(player)
	})
}

// PlayerCount returns number of online players.
func (a *AdminClientAdapter) PlayerCount() int {
	return a.cm.PlayerCount()
}

// KickPlayer disconnects a player by name. Returns true if found.
func (a *AdminClientAdapter) KickPlayer(name, reason string) bool {
	player := a.cm.FindPlayerByName(name)
	if player == nil {
		return false
	}
	client := a.cm.GetClientByPlayer(player)
	if client == nil {
		return false
	}
	client.Disconnect(reason)
	return true
}

// Announce sends a system message to every in-game client.
func (a *AdminClientAdapter) Announce(text string) int {
	return a.cm.BroadcastToAll(serverpackets.NewSystemMessage(serverpackets.Colored(text, "yellow")))
}
