package gameserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/sleeper/internal/model"
)

// saveTimeout bounds a single player save on disconnect and shutdown.
const saveTimeout = 5 * time.Second

// OnDisconnection handles client disconnection (TCP connection lost or server shutdown).
//
// Flow:
// 1. If the client never entered the world → return
// 2. Remove the player from the world on the logic loop (despawn on other clients)
// 3. Save the player's data container on the calling goroutine
//
// Runs on the connection goroutine; ctx may already be cancelled during shutdown,
// the save still gets its own deadline.
func OnDisconnection(ctx context.Context, srv *Server, client *GameClient) {
	if client.ActivePlayer() == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	var player *model.Player
	if err := srv.loop.Do(saveCtx, func() {
		player = srv.handler.LeaveWorld(client)
	}); err != nil {
		slog.Error("leave world failed", "client", client.Addr(), "error", err)
		return
	}

	// Break client-player link; prevents double processing
	client.SetActivePlayer(nil)

	if player == nil {
		return
	}
	storePlayer(saveCtx, srv, player)
}

// storePlayer saves player data if it changed since the last load/save.
func storePlayer(ctx context.Context, srv *Server, player *model.Player) {
	if srv.persister == nil || !player.PersistentData().IsDirty() {
		return
	}
	if err := srv.savePlayer(ctx, player); err != nil {
		slog.Error("failed to save player on disconnect",
			"player", player.Name(),
			"error", err)
		return
	}
	slog.Debug("player data saved", "player", player.Name())
}
