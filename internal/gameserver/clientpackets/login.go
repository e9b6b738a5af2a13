package clientpackets

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// OpcodeLogin is the first packet a client sends (C2S 0x00).
//
// Packet structure:
//   - protocol VarInt  client protocol number
//   - name     string  player name (max 16 chars)
const OpcodeLogin = 0x00

// Login carries the client's protocol number and chosen player name.
type Login struct {
	ProtocolVersion int32
	Name            string
}

// ParseLogin parses Login packet from raw bytes (opcode already stripped).
func ParseLogin(data []byte) (*Login, error) {
	r := packet.NewReader(data)

	version, err := r.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("reading protocol version: %w", err)
	}

	name, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading name: %w", err)
	}

	return &Login{
		ProtocolVersion: version,
		Name:            name,
	}, nil
}
