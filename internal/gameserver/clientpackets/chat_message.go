package clientpackets

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/constants"
	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// OpcodeChatMessage is the client chat packet (C2S 0x03).
// Messages starting with '/' are commands.
const OpcodeChatMessage = 0x03

// ChatMessage represents a client chat message packet.
type ChatMessage struct {
	Text string
}

// ParseChatMessage parses ChatMessage packet from raw bytes.
func ParseChatMessage(data []byte) (*ChatMessage, error) {
	r := packet.NewReader(data)

	text, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}
	if n := len([]rune(text)); n > constants.MaxChatLength {
		return nil, fmt.Errorf("chat message too long: %d chars", n)
	}

	return &ChatMessage{Text: text}, nil
}

// IsCommand reports whether the message is a slash command.
func (m *ChatMessage) IsCommand() bool {
	return len(m.Text) > 1 && m.Text[0] == '/'
}
