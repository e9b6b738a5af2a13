package clientpackets

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// Packet is a decoded client packet. Payload is the raw body after the opcode.
type Packet struct {
	Opcode  int32
	Payload []byte

	// Decoded holds the parsed packet for known opcodes, nil otherwise.
	Decoded any
}

// Decode splits a frame payload into opcode and body and parses known play packets.
// Unknown opcodes are returned undecoded without error.
func Decode(frame []byte) (*Packet, error) {
	r := packet.NewReader(frame)
	opcode, err := r.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("reading opcode: %w", err)
	}
	body, _ := r.ReadBytes(r.Remaining())

	pkt := &Packet{Opcode: opcode, Payload: body}

	switch opcode {
	case OpcodeChatMessage:
		pkt.Decoded, err = ParseChatMessage(body)
	case OpcodeKeepAlive:
		pkt.Decoded, err = ParseKeepAlive(body)
	case OpcodePlayerPosition:
		pkt.Decoded, err = ParsePlayerPosition(body)
	case OpcodeEntityAction:
		pkt.Decoded, err = ParseEntityAction(body)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding packet 0x%02X: %w", opcode, err)
	}
	return pkt, nil
}
