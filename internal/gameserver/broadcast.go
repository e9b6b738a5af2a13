package gameserver

import (
	"log/slog"

	"github.com/udisondev/sleeper/internal/gameserver/serverpackets"
	"github.com/udisondev/sleeper/internal/model"
)

// BroadcastToAll queues packet to every in-game client.
// The same packet value is shared by all recipients; outbound interceptors
// derive per-recipient copies on each client's write goroutine.
// Failures are logged and skipped. Returns the number of clients the packet was queued to.
func (cm *ClientManager) BroadcastToAll(pkt serverpackets.Packet) int {
	sent := 0

	for _, client := range cm.inGameClients(nil) {
		if err := client.Send(pkt); err != nil {
			slog.Warn("failed to broadcast to client", "client", client.Addr(), "error", err)
			continue
		}
		sent++
	}

	return sent
}

// BroadcastExcept queues packet to every in-game client except the one controlling exclude.
// Returns the number of clients the packet was queued to.
func (cm *ClientManager) BroadcastExcept(exclude *model.Player, pkt serverpackets.Packet) int {
	sent := 0

	for _, client := range cm.inGameClients(exclude) {
		if err := client.Send(pkt); err != nil {
			slog.Warn("failed to broadcast to client", "client", client.Addr(), "error", err)
			continue
		}
		sent++
	}

	return sent
}

// inGameClients snapshots in-game clients so Send (which may close a slow client)
// never runs under the manager lock.
func (cm *ClientManager) inGameClients(exclude *model.Player) []*GameClient {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	out := make([]*GameClient, 0, len(cm.playerClients))
	for player, client := range cm.playerClients {
		if player == exclude {
			continue
		}
		// Skip clients not yet in game
		if client.State() != ClientStateInGame {
			continue
		}
		out = append(out, client)
	}
	return out
}
