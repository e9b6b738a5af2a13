package serverpackets

import "github.com/udisondev/sleeper/internal/gameserver/packet"

// OpcodeDisconnect tells the client why it is being dropped (S2C 0x1B).
const OpcodeDisconnect = 0x1B

// Disconnect packet (S2C 0x1B).
type Disconnect struct {
	Reason TextComponent
}

// NewDisconnect creates Disconnect packet with a plain reason.
func NewDisconnect(reason string) *Disconnect {
	return &Disconnect{Reason: Text(reason)}
}

// Write serializes Disconnect packet.
func (p *Disconnect) Write() ([]byte, error) {
	w := packet.NewWriter(64)

	w.WriteVarInt(OpcodeDisconnect)
	if err := writeComponent(w, p.Reason); err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}
