package serverpackets

import (
	"github.com/udisondev/sleeper/internal/gameserver/packet"
	"github.com/udisondev/sleeper/internal/model"
)

// OpcodeEntityTeleport moves an entity on other clients (S2C 0x57).
const OpcodeEntityTeleport = 0x57

// EntityTeleport packet (S2C 0x57).
type EntityTeleport struct {
	EntityID int32
	Location model.Location
	OnGround bool
}

// NewEntityTeleport creates EntityTeleport packet.
func NewEntityTeleport(entityID int32, loc model.Location, onGround bool) *EntityTeleport {
	return &EntityTeleport{EntityID: entityID, Location: loc, OnGround: onGround}
}

// Write serializes EntityTeleport packet.
func (p *EntityTeleport) Write() ([]byte, error) {
	w := packet.NewWriter(48)

	w.WriteVarInt(OpcodeEntityTeleport)
	w.WriteVarInt(p.EntityID)
	w.WriteDouble(p.Location.X)
	w.WriteDouble(p.Location.Y)
	w.WriteDouble(p.Location.Z)
	_ = w.WriteByte(angle(p.Location.Yaw))
	_ = w.WriteByte(angle(p.Location.Pitch))
	w.WriteBool(p.OnGround)

	return w.Bytes(), nil
}
