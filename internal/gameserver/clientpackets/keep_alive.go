package clientpackets

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// OpcodeKeepAlive is the client's answer to a server keep-alive (C2S 0x0F).
const OpcodeKeepAlive = 0x0F

// KeepAlive echoes the id of the server keep-alive.
type KeepAlive struct {
	ID int64
}

// ParseKeepAlive parses KeepAlive packet from raw bytes.
func ParseKeepAlive(data []byte) (*KeepAlive, error) {
	r := packet.NewReader(data)

	id, err := r.ReadLong()
	if err != nil {
		return nil, fmt.Errorf("reading keep-alive id: %w", err)
	}
	return &KeepAlive{ID: id}, nil
}
