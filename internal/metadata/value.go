package metadata

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// Type is the serializer id written before every metadata value.
// Ids follow the 1.14+ table; only the types the server emits are modeled.
type Type int32

const (
	TypeByte        Type = 0
	TypeVarInt      Type = 1
	TypeFloat       Type = 2
	TypeString      Type = 3
	TypeBoolean     Type = 7
	TypePosition    Type = 9
	TypeOptPosition Type = 10
	TypePose        Type = 18
)

func (t Type) String() string {
	switch t {
	case TypeByte:
		return "byte"
	case TypeVarInt:
		return "varint"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypePosition:
		return "position"
	case TypeOptPosition:
		return "opt_position"
	case TypePose:
		return "pose"
	default:
		return fmt.Sprintf("type(%d)", int32(t))
	}
}

// Value is a typed metadata payload.
type Value interface {
	Type() Type
	Encode(w *packet.Writer)
}

// Byte is a single unsigned byte (entity flags and similar bitfields).
type Byte uint8

func (Byte) Type() Type                { return TypeByte }
func (v Byte) Encode(w *packet.Writer) { _ = w.WriteByte(byte(v)) }

// VarInt is a variable-length int32.
type VarInt int32

func (VarInt) Type() Type                { return TypeVarInt }
func (v VarInt) Encode(w *packet.Writer) { w.WriteVarInt(int32(v)) }

// Float is a float32.
type Float float32

func (Float) Type() Type                { return TypeFloat }
func (v Float) Encode(w *packet.Writer) { w.WriteFloat(float32(v)) }

// String is a VarInt-prefixed UTF-8 string.
type String string

func (String) Type() Type                { return TypeString }
func (v String) Encode(w *packet.Writer) { w.WriteString(string(v)) }

// Boolean is a single 0x00/0x01 byte.
type Boolean bool

func (Boolean) Type() Type                { return TypeBoolean }
func (v Boolean) Encode(w *packet.Writer) { w.WriteBool(bool(v)) }

// Position is a packed block position.
type Position BlockPos

func (Position) Type() Type                { return TypePosition }
func (v Position) Encode(w *packet.Writer) { w.WriteLong(BlockPos(v).Pack()) }

// OptPosition is an optional block position. The zero value is "absent".
type OptPosition struct {
	Pos     BlockPos
	Present bool
}

// SomePosition returns a present OptPosition.
func SomePosition(pos BlockPos) OptPosition {
	return OptPosition{Pos: pos, Present: true}
}

func (OptPosition) Type() Type { return TypeOptPosition }

func (v OptPosition) Encode(w *packet.Writer) {
	w.WriteBool(v.Present)
	if v.Present {
		w.WriteLong(v.Pos.Pack())
	}
}

// Pose is the entity pose enum, written as VarInt.
type Pose int32

const (
	PoseStanding   Pose = 0
	PoseFallFlying Pose = 1
	PoseSleeping   Pose = 2
	PoseSwimming   Pose = 3
	PoseSpinAttack Pose = 4
	PoseSneaking   Pose = 5
	PoseDying      Pose = 6
)

func (Pose) Type() Type                { return TypePose }
func (v Pose) Encode(w *packet.Writer) { w.WriteVarInt(int32(v)) }

func (v Pose) String() string {
	switch v {
	case PoseStanding:
		return "STANDING"
	case PoseFallFlying:
		return "FALL_FLYING"
	case PoseSleeping:
		return "SLEEPING"
	case PoseSwimming:
		return "SWIMMING"
	case PoseSpinAttack:
		return "SPIN_ATTACK"
	case PoseSneaking:
		return "SNEAKING"
	case PoseDying:
		return "DYING"
	default:
		return fmt.Sprintf("POSE(%d)", int32(v))
	}
}

// ParsePose resolves a pose constant by its enum name.
func ParsePose(name string) (Pose, bool) {
	for p := PoseStanding; p <= PoseDying; p++ {
		if p.String() == name {
			return p, true
		}
	}
	return 0, false
}

func readValue(r *packet.Reader, t Type) (Value, error) {
	switch t {
	case TypeByte:
		b, err := r.ReadByte()
		return Byte(b), err
	case TypeVarInt:
		v, err := r.ReadVarInt()
		return VarInt(v), err
	case TypeFloat:
		v, err := r.ReadFloat()
		return Float(v), err
	case TypeString:
		v, err := r.ReadString()
		return String(v), err
	case TypeBoolean:
		v, err := r.ReadBool()
		return Boolean(v), err
	case TypePosition:
		v, err := r.ReadLong()
		return Position(UnpackBlockPos(v)), err
	case TypeOptPosition:
		present, err := r.ReadBool()
		if err != nil || !present {
			return OptPosition{}, err
		}
		v, err := r.ReadLong()
		return SomePosition(UnpackBlockPos(v)), err
	case TypePose:
		v, err := r.ReadVarInt()
		return Pose(v), err
	default:
		return nil, fmt.Errorf("unsupported metadata type %d", int32(t))
	}
}
