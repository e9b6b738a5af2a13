package serverpackets

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
	"github.com/udisondev/sleeper/internal/metadata"
)

// OpcodeEntityMetadata is the entity-state update packet (S2C 0x44).
//
// Packet structure:
//   - entityId VarInt
//   - entries  (index ubyte, type VarInt, value)*, terminated by index 0xFF
const OpcodeEntityMetadata = 0x44

// EntityMetadata carries entity-state entries for one entity.
// The same instance may be queued to many clients: treat Entries as read-only
// and use WithEntries to derive a modified copy.
type EntityMetadata struct {
	EntityID int32
	Entries  metadata.List
}

// NewEntityMetadata creates an EntityMetadata packet.
func NewEntityMetadata(entityID int32, entries metadata.List) *EntityMetadata {
	return &EntityMetadata{EntityID: entityID, Entries: entries}
}

// WithEntries returns a copy of the packet carrying entries.
func (p *EntityMetadata) WithEntries(entries metadata.List) *EntityMetadata {
	return &EntityMetadata{EntityID: p.EntityID, Entries: entries}
}

// Write serializes EntityMetadata packet.
func (p *EntityMetadata) Write() ([]byte, error) {
	w := packet.NewWriter(32 + len(p.Entries)*8)

	w.WriteVarInt(OpcodeEntityMetadata)
	w.WriteVarInt(p.EntityID)
	if err := p.Entries.Write(w); err != nil {
		return nil, fmt.Errorf("writing metadata of entity %d: %w", p.EntityID, err)
	}

	return w.Bytes(), nil
}

// ParseEntityMetadata parses the packet data after the packet id.
func ParseEntityMetadata(data []byte) (*EntityMetadata, error) {
	r := packet.NewReader(data)

	entityID, err := r.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("reading entityId: %w", err)
	}
	entries, err := metadata.ReadList(r)
	if err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	return &EntityMetadata{EntityID: entityID, Entries: entries}, nil
}
