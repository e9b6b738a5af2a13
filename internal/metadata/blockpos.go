package metadata

import "fmt"

// BlockPos is an integer block coordinate.
type BlockPos struct {
	X, Y, Z int32
}

// Pack encodes the position into the 64-bit wire layout: x(26) | z(26) | y(12).
func (p BlockPos) Pack() int64 {
	return (int64(p.X)&0x3FFFFFF)<<38 | (int64(p.Z)&0x3FFFFFF)<<12 | int64(p.Y)&0xFFF
}

// UnpackBlockPos decodes a packed position, sign-extending every axis.
func UnpackBlockPos(v int64) BlockPos {
	return BlockPos{
		X: int32(v >> 38),
		Y: int32(v << 52 >> 52),
		Z: int32(v << 26 >> 38),
	}
}

// Up returns the position offset by n blocks on the Y axis.
func (p BlockPos) Up(n int32) BlockPos {
	p.Y += n
	return p
}

func (p BlockPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}
