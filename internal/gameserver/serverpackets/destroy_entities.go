package serverpackets

import "github.com/udisondev/sleeper/internal/gameserver/packet"

// OpcodeDestroyEntities removes entities from the client (S2C 0x38).
const OpcodeDestroyEntities = 0x38

// DestroyEntities packet (S2C 0x38).
type DestroyEntities struct {
	EntityIDs []int32
}

// NewDestroyEntities creates DestroyEntities packet.
func NewDestroyEntities(ids ...int32) *DestroyEntities {
	return &DestroyEntities{EntityIDs: ids}
}

// Write serializes DestroyEntities packet.
func (p *DestroyEntities) Write() ([]byte, error) {
	w := packet.NewWriter(8 + len(p.EntityIDs)*5)

	w.WriteVarInt(OpcodeDestroyEntities)
	w.WriteVarInt(int32(len(p.EntityIDs)))
	for _, id := range p.EntityIDs {
		w.WriteVarInt(id)
	}

	return w.Bytes(), nil
}
