package metadata

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// Indices of the base entity fields the host simulation maintains.
const (
	IndexFlags byte = 0
	IndexPose  byte = 6
)

// Entity flag bits stored at IndexFlags.
const (
	FlagOnFire    byte = 0x01
	FlagSneaking  byte = 0x02
	FlagSprinting byte = 0x08
	FlagSwimming  byte = 0x10
	FlagInvisible byte = 0x20
	FlagGlowing   byte = 0x40
	FlagElytra    byte = 0x80
)

// endMarker terminates an entry list on the wire.
const endMarker = 0xFF

// Entry is one (field index, typed value) pair.
type Entry struct {
	Index byte
	Value Value
}

func (e Entry) String() string {
	return fmt.Sprintf("#%d %s=%v", e.Index, e.Value.Type(), e.Value)
}

// List is an ordered list of entries as carried by one entity-state packet.
type List []Entry

// Clone returns a copy that can be modified without touching l.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Find returns the first entry with the given index.
func (l List) Find(index byte) (Entry, bool) {
	for _, e := range l {
		if e.Index == index {
			return e, true
		}
	}
	return Entry{}, false
}

// Count returns how many entries carry the given index.
func (l List) Count(index byte) int {
	n := 0
	for _, e := range l {
		if e.Index == index {
			n++
		}
	}
	return n
}

// Put overwrites the first entry with e.Index in place and drops any later
// entries with the same index, or appends e if no such entry exists.
// Relative order of the other entries is preserved.
func (l *List) Put(e Entry) {
	out := (*l)[:0]
	found := false
	for _, cur := range *l {
		if cur.Index != e.Index {
			out = append(out, cur)
			continue
		}
		if !found {
			out = append(out, e)
			found = true
		}
	}
	if !found {
		out = append(out, e)
	}
	*l = out
}

// Remove drops every entry with the given index.
func (l *List) Remove(index byte) {
	out := (*l)[:0]
	for _, e := range *l {
		if e.Index != index {
			out = append(out, e)
		}
	}
	*l = out
}

// Write encodes entries followed by the 0xFF terminator.
func (l List) Write(w *packet.Writer) error {
	for _, e := range l {
		if e.Index == endMarker {
			return fmt.Errorf("metadata index 0xFF is reserved")
		}
		if e.Value == nil {
			return fmt.Errorf("metadata index %d: nil value", e.Index)
		}
		_ = w.WriteByte(e.Index)
		w.WriteVarInt(int32(e.Value.Type()))
		e.Value.Encode(w)
	}
	return w.WriteByte(endMarker)
}

// ReadList decodes entries up to and including the 0xFF terminator.
func ReadList(r *packet.Reader) (List, error) {
	var out List
	for {
		index, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("reading metadata index: %w", err)
		}
		if index == endMarker {
			return out, nil
		}

		t, err := r.ReadVarInt()
		if err != nil {
			return nil, fmt.Errorf("reading metadata type for index %d: %w", index, err)
		}

		v, err := readValue(r, Type(t))
		if err != nil {
			return nil, fmt.Errorf("reading metadata value for index %d: %w", index, err)
		}
		out = append(out, Entry{Index: index, Value: v})
	}
}
