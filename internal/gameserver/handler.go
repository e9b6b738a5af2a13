package gameserver

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/sleeper/internal/gameserver/clientpackets"
	"github.com/udisondev/sleeper/internal/gameserver/serverpackets"
	"github.com/udisondev/sleeper/internal/metadata"
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/world"
)

// CommandDispatcher executes slash commands typed in chat.
// text is the message WITHOUT the leading '/'.
type CommandDispatcher interface {
	HandleCommand(player *model.Player, text string) (reply string, handled bool)
}

// Handler processes in-game client packets.
// Every method runs on the logic loop goroutine.
type Handler struct {
	world         *world.World
	clientManager *ClientManager
	commands      CommandDispatcher
}

// NewHandler creates a new packet handler for game clients.
func NewHandler(w *world.World, clientManager *ClientManager) *Handler {
	return &Handler{
		world:         w,
		clientManager: clientManager,
	}
}

// SetCommands installs the chat command dispatcher.
// Must be called before the server starts.
func (h *Handler) SetCommands(commands CommandDispatcher) {
	h.commands = commands
}

// EnterWorld registers the player and exchanges spawn packets with everyone online.
func (h *Handler) EnterWorld(client *GameClient, player *model.Player) error {
	if err := h.world.AddPlayer(player); err != nil {
		return fmt.Errorf("adding player to world: %w", err)
	}

	client.SetActivePlayer(player)
	h.clientManager.RegisterPlayer(player, client)
	client.SetState(ClientStateInGame)

	loc := player.Location()
	self := []serverpackets.Packet{
		serverpackets.NewJoinGame(player.EntityID()),
		serverpackets.NewPlayerPositionLook(loc, client.NextTeleportID()),
		serverpackets.NewEntityMetadata(player.EntityID(), player.Metadata().Snapshot()),
	}
	for _, pkt := range self {
		if err := client.Send(pkt); err != nil {
			return fmt.Errorf("sending join packets: %w", err)
		}
	}

	// Existing players → newcomer
	h.world.ForEachPlayer(func(other *model.Player) bool {
		if other == player {
			return true
		}
		_ = client.Send(serverpackets.NewSpawnPlayer(other))
		_ = client.Send(serverpackets.NewEntityMetadata(other.EntityID(), other.Metadata().Snapshot()))
		return true
	})

	// Newcomer → existing players
	h.clientManager.BroadcastExcept(player, serverpackets.NewSpawnPlayer(player))
	h.clientManager.BroadcastExcept(player, serverpackets.NewEntityMetadata(player.EntityID(), player.Metadata().Snapshot()))

	slog.Info("player entered world",
		"name", player.Name(),
		"entity", player.EntityID(),
		"client", client.Addr(),
		"online", h.world.PlayerCount())
	return nil
}

// LeaveWorld removes the client's player from the world and despawns it on other clients.
// Returns the player that left, nil if the client never entered.
func (h *Handler) LeaveWorld(client *GameClient) *model.Player {
	player := client.ActivePlayer()
	if player == nil {
		return nil
	}

	h.world.RemovePlayer(player)
	h.clientManager.UnregisterPlayer(player)
	h.clientManager.BroadcastToAll(serverpackets.NewDestroyEntities(player.EntityID()))

	slog.Info("player left world",
		"name", player.Name(),
		"entity", player.EntityID(),
		"online", h.world.PlayerCount())
	return player
}

// HandlePacket dispatches a decoded in-game packet.
func (h *Handler) HandlePacket(client *GameClient, pkt *clientpackets.Packet) {
	player := client.ActivePlayer()
	if player == nil || client.State() != ClientStateInGame {
		return
	}

	switch p := pkt.Decoded.(type) {
	case *clientpackets.PlayerPosition:
		h.handlePlayerPosition(client, player, p)
	case *clientpackets.EntityAction:
		h.handleEntityAction(client, player, p)
	case *clientpackets.ChatMessage:
		h.handleChatMessage(client, player, p)
	case *clientpackets.KeepAlive:
		if !client.AckKeepAlive(p.ID) {
			slog.Debug("unexpected keep-alive id", "client", client.Addr(), "id", p.ID)
		}
	default:
		slog.Debug("unhandled packet",
			"opcode", fmt.Sprintf("0x%02X", pkt.Opcode),
			"player", player.Name())
	}
}

func (h *Handler) handlePlayerPosition(client *GameClient, player *model.Player, p *clientpackets.PlayerPosition) {
	cur := player.Location()
	target := model.Location{X: p.X, Y: p.Y, Z: p.Z, Yaw: cur.Yaw, Pitch: cur.Pitch}

	if err := ValidateMove(player, target); err != nil {
		slog.Warn("movement rejected", "player", player.Name(), "error", err)
		_ = client.Send(serverpackets.NewPlayerPositionLook(cur, client.NextTeleportID()))
		return
	}

	player.SetLocation(target)
	player.SetOnGround(p.OnGround)
	h.clientManager.BroadcastExcept(player, serverpackets.NewEntityTeleport(player.EntityID(), target, p.OnGround))
}

func (h *Handler) handleEntityAction(client *GameClient, player *model.Player, p *clientpackets.EntityAction) {
	if p.EntityID != player.EntityID() {
		slog.Warn("entity action for foreign entity",
			"player", player.Name(),
			"entity", p.EntityID,
			"client", client.Addr())
		return
	}

	tracker := player.Metadata()
	var changed metadata.List

	switch p.Action {
	case clientpackets.ActionStartSneaking, clientpackets.ActionStopSneaking:
		on := p.Action == clientpackets.ActionStartSneaking
		if flags, ok := tracker.SetFlag(metadata.FlagSneaking, on); ok {
			changed = append(changed, metadata.Entry{Index: metadata.IndexFlags, Value: metadata.Byte(flags)})
		}
		pose := metadata.PoseStanding
		if on {
			pose = metadata.PoseSneaking
		}
		if tracker.Set(metadata.IndexPose, pose) {
			changed = append(changed, metadata.Entry{Index: metadata.IndexPose, Value: pose})
		}

	case clientpackets.ActionStartSprint, clientpackets.ActionStopSprint:
		on := p.Action == clientpackets.ActionStartSprint
		if flags, ok := tracker.SetFlag(metadata.FlagSprinting, on); ok {
			changed = append(changed, metadata.Entry{Index: metadata.IndexFlags, Value: metadata.Byte(flags)})
		}

	case clientpackets.ActionLeaveBed:
		// Sleep state is owned by the inbound sleep filter.
		return

	default:
		slog.Debug("unknown entity action", "player", player.Name(), "action", p.Action)
		return
	}

	if len(changed) > 0 {
		h.clientManager.BroadcastToAll(serverpackets.NewEntityMetadata(player.EntityID(), changed))
	}
}

func (h *Handler) handleChatMessage(client *GameClient, player *model.Player, p *clientpackets.ChatMessage) {
	if p.IsCommand() {
		if h.commands == nil {
			return
		}
		reply, handled := h.commands.HandleCommand(player, p.Text[1:])
		if !handled && reply == "" {
			reply = "Unknown command."
		}
		if reply != "" {
			_ = client.Send(serverpackets.NewSystemMessage(serverpackets.Colored(reply, "gray")))
		}
		return
	}

	slog.Info("chat", "player", player.Name(), "text", p.Text)
	h.clientManager.BroadcastToAll(serverpackets.NewChatMessage(serverpackets.Text("<" + player.Name() + "> " + p.Text)))
}

// Teleport moves player to loc and resyncs every client.
func (h *Handler) Teleport(player *model.Player, loc model.Location) {
	player.SetLocation(loc)

	if client := h.clientManager.GetClientByPlayer(player); client != nil {
		_ = client.Send(serverpackets.NewPlayerPositionLook(loc, client.NextTeleportID()))
	}
	h.clientManager.BroadcastExcept(player, serverpackets.NewEntityTeleport(player.EntityID(), loc, player.OnGround()))
}

// SendMessage sends a system message to player. No-op if the player is offline.
func (h *Handler) SendMessage(player *model.Player, text string) {
	if client := h.clientManager.GetClientByPlayer(player); client != nil {
		_ = client.Send(serverpackets.NewSystemMessage(serverpackets.Text(text)))
	}
}
