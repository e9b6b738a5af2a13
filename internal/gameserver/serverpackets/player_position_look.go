package serverpackets

import (
	"github.com/udisondev/sleeper/internal/gameserver/packet"
	"github.com/udisondev/sleeper/internal/model"
)

// OpcodePlayerPositionLook moves the receiving client's own player (S2C 0x36).
const OpcodePlayerPositionLook = 0x36

// PlayerPositionLook packet (S2C 0x36). All coordinates are absolute (flags = 0).
type PlayerPositionLook struct {
	Location   model.Location
	TeleportID int32
}

// NewPlayerPositionLook creates PlayerPositionLook packet.
func NewPlayerPositionLook(loc model.Location, teleportID int32) *PlayerPositionLook {
	return &PlayerPositionLook{Location: loc, TeleportID: teleportID}
}

// Write serializes PlayerPositionLook packet.
func (p *PlayerPositionLook) Write() ([]byte, error) {
	w := packet.NewWriter(48)

	w.WriteVarInt(OpcodePlayerPositionLook)
	w.WriteDouble(p.Location.X)
	w.WriteDouble(p.Location.Y)
	w.WriteDouble(p.Location.Z)
	w.WriteFloat(p.Location.Yaw)
	w.WriteFloat(p.Location.Pitch)
	_ = w.WriteByte(0) // flags: absolute
	w.WriteVarInt(p.TeleportID)

	return w.Bytes(), nil
}
