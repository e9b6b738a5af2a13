package serverpackets

import "github.com/udisondev/sleeper/internal/gameserver/packet"

// OpcodeKeepAlive is the server keep-alive ping (S2C 0x21).
const OpcodeKeepAlive = 0x21

// KeepAlive packet (S2C 0x21). The client echoes ID back.
type KeepAlive struct {
	ID int64
}

// Write serializes KeepAlive packet.
func (p *KeepAlive) Write() ([]byte, error) {
	w := packet.NewWriter(16)

	w.WriteVarInt(OpcodeKeepAlive)
	w.WriteLong(p.ID)

	return w.Bytes(), nil
}
