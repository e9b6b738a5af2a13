package clientpackets

import (
	"fmt"
	"math"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// OpcodePlayerPosition is the client movement packet (C2S 0x11).
//
// Packet structure:
//   - x, y, z  double  feet position
//   - onGround bool
const OpcodePlayerPosition = 0x11

// PlayerPosition represents a client movement update.
type PlayerPosition struct {
	X, Y, Z  float64
	OnGround bool
}

// ParsePlayerPosition parses PlayerPosition packet from raw bytes.
func ParsePlayerPosition(data []byte) (*PlayerPosition, error) {
	r := packet.NewReader(data)

	var coords [3]float64
	for i := range coords {
		v, err := r.ReadDouble()
		if err != nil {
			return nil, fmt.Errorf("reading coordinate %d: %w", i, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid coordinate %d: %v", i, v)
		}
		coords[i] = v
	}

	onGround, err := r.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("reading onGround: %w", err)
	}

	return &PlayerPosition{
		X:        coords[0],
		Y:        coords[1],
		Z:        coords[2],
		OnGround: onGround,
	}, nil
}
