package serverpackets

import "github.com/udisondev/sleeper/internal/gameserver/packet"

// OpcodeChatMessage delivers chat or system text (S2C 0x0F).
const OpcodeChatMessage = 0x0F

// Chat positions.
const (
	ChatPositionChat   byte = 0
	ChatPositionSystem byte = 1
)

// ChatMessage packet (S2C 0x0F).
type ChatMessage struct {
	Message  TextComponent
	Position byte
}

// NewChatMessage creates a player chat line.
func NewChatMessage(msg TextComponent) *ChatMessage {
	return &ChatMessage{Message: msg, Position: ChatPositionChat}
}

// NewSystemMessage creates a system message (command feedback).
func NewSystemMessage(msg TextComponent) *ChatMessage {
	return &ChatMessage{Message: msg, Position: ChatPositionSystem}
}

// Write serializes ChatMessage packet.
func (p *ChatMessage) Write() ([]byte, error) {
	w := packet.NewWriter(64)

	w.WriteVarInt(OpcodeChatMessage)
	if err := writeComponent(w, p.Message); err != nil {
		return nil, err
	}
	_ = w.WriteByte(p.Position)

	return w.Bytes(), nil
}
