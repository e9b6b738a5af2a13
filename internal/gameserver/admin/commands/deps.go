// Package commands implements the chat commands of the server.
package commands

import (
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/sleep"
)

// ClientManager provides player lookup for commands.
// Interface to avoid import cycle with gameserver package.
type ClientManager interface {
	// FindPlayerByName finds an online player by name (case-insensitive).
	FindPlayerByName(name string) *model.Player
	// ForEachPlayer iterates over all online players.
	ForEachPlayer(fn func(*model.Player) bool)
	// PlayerCount returns number of online players.
	PlayerCount() int
	// KickPlayer disconnects a player by name. Returns true if found.
	KickPlayer(name, reason string) bool
	// Announce sends a system message to every player.
	Announce(text string) int
}

// Teleporter moves players and resyncs clients.
type Teleporter interface {
	Teleport(player *model.Player, loc model.Location)
}

// SleepAuthority changes sleep status. Called on the logic loop.
type SleepAuthority interface {
	Status(player *model.Player) sleep.Status
	SetStatus(player *model.Player, status sleep.Status) bool
	SleepNaturally(player *model.Player, bed model.Location) bool
	AttemptWakeUp(player *model.Player) bool
}
