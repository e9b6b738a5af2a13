// Package sleep tracks the per-player sleep status and is the only place that changes it.
package sleep

import (
	"fmt"
	"strings"

	"github.com/udisondev/sleeper/internal/model"
)

// Status is the sleep status of a player. Values are persisted as a single byte;
// the numeric values must never change.
type Status byte

const (
	// Awake is the default status.
	Awake Status = iota
	// Sleeping was entered naturally and can be left by the player.
	Sleeping
	// ForcedSleep can only be left by an explicit status change.
	ForcedSleep
)

// StatusKey is the data container key the status byte is stored under.
var StatusKey = model.MustNamespacedKey("sleeper", "sleep_status")

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s <= ForcedSleep
}

func (s Status) String() string {
	switch s {
	case Awake:
		return "AWAKE"
	case Sleeping:
		return "SLEEPING"
	case ForcedSleep:
		return "FORCED_SLEEP"
	default:
		return fmt.Sprintf("STATUS(%d)", byte(s))
	}
}

// ParseStatus resolves a status by name, case-insensitively.
func ParseStatus(name string) (Status, bool) {
	for s := Awake; s <= ForcedSleep; s++ {
		if strings.EqualFold(s.String(), name) {
			return s, true
		}
	}
	return Awake, false
}
