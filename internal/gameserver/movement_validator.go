package gameserver

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/model"
)

// Movement validation constants.
// These limits prevent teleport hacks and moves outside the build height.
const (
	// Y-coordinate boundaries
	MinYCoordinate = -64.0
	MaxYCoordinate = 320.0

	// MaxMoveDistanceSquared is the max distance of a single position update (squared).
	MaxMoveDistanceSquared = 100.0 * 100.0
)

// ValidateMove validates a position update from the client.
// Returns an error if validation fails (movement should be rejected and the client resynced).
func ValidateMove(player *model.Player, target model.Location) error {
	if !target.IsFinite() {
		return fmt.Errorf("non-finite position %+v", target)
	}

	if target.Y < MinYCoordinate || target.Y > MaxYCoordinate {
		return fmt.Errorf("invalid Y coordinate: %.2f (allowed range: %.0f..%.0f)",
			target.Y, MinYCoordinate, MaxYCoordinate)
	}

	if distSq := player.Location().DistanceSquared(target); distSq > MaxMoveDistanceSquared {
		return fmt.Errorf("movement distance too large: %.1f (max: %.0f)",
			distSq, MaxMoveDistanceSquared)
	}

	return nil
}
