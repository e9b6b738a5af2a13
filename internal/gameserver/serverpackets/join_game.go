package serverpackets

import (
	"github.com/udisondev/sleeper/internal/constants"
	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// OpcodeJoinGame is the first play packet (S2C 0x26). It tells the client its own entity id.
const OpcodeJoinGame = 0x26

// JoinGame packet (S2C 0x26).
type JoinGame struct {
	EntityID   int32
	GameMode   byte
	Dimension  int32
	HashedSeed int64
	LevelType  string
}

// NewJoinGame creates JoinGame for a survival player in the overworld.
func NewJoinGame(entityID int32) *JoinGame {
	return &JoinGame{
		EntityID:  entityID,
		GameMode:  0,
		Dimension: 0,
		LevelType: "default",
	}
}

// Write serializes JoinGame packet.
func (p *JoinGame) Write() ([]byte, error) {
	w := packet.NewWriter(64)

	w.WriteVarInt(OpcodeJoinGame)
	w.WriteInt(p.EntityID)
	_ = w.WriteByte(p.GameMode)
	w.WriteInt(p.Dimension)
	w.WriteLong(p.HashedSeed)
	_ = w.WriteByte(constants.MaxPlayers)
	w.WriteString(p.LevelType)
	w.WriteVarInt(constants.ViewDistance)
	w.WriteBool(false) // reduced debug info
	w.WriteBool(true)  // enable respawn screen

	return w.Bytes(), nil
}
