package model

import (
	"math"

	"github.com/udisondev/sleeper/internal/metadata"
)

// Location представляет координаты в игровом мире.
// Value type, передаётся по значению (immutable).
type Location struct {
	X, Y, Z    float64
	Yaw, Pitch float32
}

// NewLocation создаёт Location с указанными координатами и нулевым поворотом.
func NewLocation(x, y, z float64) Location {
	return Location{X: x, Y: y, Z: z}
}

// Add returns the location offset by (dx, dy, dz); rotation is kept.
func (l Location) Add(dx, dy, dz float64) Location {
	l.X += dx
	l.Y += dy
	l.Z += dz
	return l
}

// WithRotation возвращает новый Location с обновлённым поворотом (immutable pattern).
func (l Location) WithRotation(yaw, pitch float32) Location {
	l.Yaw = yaw
	l.Pitch = pitch
	return l
}

// Block returns the block the location is inside of (floor on every axis).
func (l Location) Block() metadata.BlockPos {
	return metadata.BlockPos{
		X: int32(math.Floor(l.X)),
		Y: int32(math.Floor(l.Y)),
		Z: int32(math.Floor(l.Z)),
	}
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt).
func (l Location) DistanceSquared(other Location) float64 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	dz := l.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// IsFinite reports whether every coordinate is a finite number.
func (l Location) IsFinite() bool {
	for _, v := range [...]float64{l.X, l.Y, l.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
