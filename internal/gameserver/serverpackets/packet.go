package serverpackets

import (
	"encoding/json"
	"fmt"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// Packet is a server packet queued to a client.
// Write returns the frame payload: VarInt packet id followed by the packet data.
// Packets are immutable once queued; interceptors replace them instead of mutating.
type Packet interface {
	Write() ([]byte, error)
}

// Raw is an already serialized payload (packet id + data).
type Raw []byte

// Write implements Packet.
func (p Raw) Write() ([]byte, error) {
	return p, nil
}

// TextComponent is the JSON chat component used by ChatMessage and Disconnect.
type TextComponent struct {
	Text  string          `json:"text"`
	Color string          `json:"color,omitempty"`
	Extra []TextComponent `json:"extra,omitempty"`
}

// Text creates a plain text component.
func Text(s string) TextComponent {
	return TextComponent{Text: s}
}

// Colored creates a text component with a named color ("red", "gray", ...).
func Colored(s, color string) TextComponent {
	return TextComponent{Text: s, Color: color}
}

func writeComponent(w *packet.Writer, c TextComponent) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding text component: %w", err)
	}
	w.WriteString(string(data))
	return nil
}

// angle converts degrees to the protocol's 1/256 turn byte.
func angle(deg float32) byte {
	return byte(int32(deg*256/360) & 0xFF)
}
