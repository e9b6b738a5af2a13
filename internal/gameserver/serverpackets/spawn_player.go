package serverpackets

import (
	"github.com/udisondev/sleeper/internal/gameserver/packet"
	"github.com/udisondev/sleeper/internal/model"
)

// OpcodeSpawnPlayer announces another player entity (S2C 0x05).
const OpcodeSpawnPlayer = 0x05

// SpawnPlayer packet (S2C 0x05).
// Sent when a player becomes visible to the receiving client.
type SpawnPlayer struct {
	Player *model.Player
}

// NewSpawnPlayer creates SpawnPlayer packet from Player model.
func NewSpawnPlayer(player *model.Player) *SpawnPlayer {
	return &SpawnPlayer{Player: player}
}

// Write serializes SpawnPlayer packet.
func (p *SpawnPlayer) Write() ([]byte, error) {
	w := packet.NewWriter(64)
	loc := p.Player.Location()
	id := p.Player.UUID()

	w.WriteVarInt(OpcodeSpawnPlayer)
	w.WriteVarInt(p.Player.EntityID())
	w.WriteBytes(id[:])
	w.WriteDouble(loc.X)
	w.WriteDouble(loc.Y)
	w.WriteDouble(loc.Z)
	_ = w.WriteByte(angle(loc.Yaw))
	_ = w.WriteByte(angle(loc.Pitch))

	return w.Bytes(), nil
}
