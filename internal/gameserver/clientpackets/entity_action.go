package clientpackets

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

// OpcodeEntityAction is the client entity action packet (C2S 0x1B).
//
// Packet structure:
//   - entityId  VarInt  the sender's own entity id
//   - actionId  VarInt  see Action constants
//   - jumpBoost VarInt  horse jump strength, 0 otherwise
const OpcodeEntityAction = 0x1B

// Action is the entity action id.
type Action int32

// Entity action ids.
const (
	ActionStartSneaking Action = 0
	ActionStopSneaking  Action = 1
	ActionLeaveBed      Action = 2
	ActionStartSprint   Action = 3
	ActionStopSprint    Action = 4
)

func (a Action) String() string {
	switch a {
	case ActionStartSneaking:
		return "START_SNEAKING"
	case ActionStopSneaking:
		return "STOP_SNEAKING"
	case ActionLeaveBed:
		return "LEAVE_BED"
	case ActionStartSprint:
		return "START_SPRINTING"
	case ActionStopSprint:
		return "STOP_SPRINTING"
	default:
		return fmt.Sprintf("ACTION(%d)", int32(a))
	}
}

// EntityAction represents a client entity action.
type EntityAction struct {
	EntityID  int32
	Action    Action
	JumpBoost int32
}

// ParseEntityAction parses EntityAction packet from raw bytes.
func ParseEntityAction(data []byte) (*EntityAction, error) {
	r := packet.NewReader(data)

	entityID, err := r.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("reading entityId: %w", err)
	}

	action, err := r.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("reading actionId: %w", err)
	}

	jump, err := r.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("reading jumpBoost: %w", err)
	}

	return &EntityAction{
		EntityID:  entityID,
		Action:    Action(action),
		JumpBoost: jump,
	}, nil
}
