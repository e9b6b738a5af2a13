package world

import "sync/atomic"

// EntityIDGenerator generates unique network entity IDs.
//
// ID ranges (convention):
//
//	0x00000000          : invalid
//	0x00000001 - ...    : players
//
// IDs are never reused within a process; clients key entity state by them.
type EntityIDGenerator struct {
	next atomic.Int32
}

// NewEntityIDGenerator creates a new ID generator starting after 0.
func NewEntityIDGenerator() *EntityIDGenerator {
	return &EntityIDGenerator{}
}

// Next generates next unique entity ID.
// Thread-safe via atomic increment.
func (g *EntityIDGenerator) Next() int32 {
	return g.next.Add(1)
}
