package sleep

import (
	"github.com/udisondev/sleeper/internal/metadata"
	"github.com/udisondev/sleeper/internal/model"
)

// TransitionRequest is delivered to status observers right before a status write.
// It is only valid for the duration of the callback.
type TransitionRequest struct {
	Player    *model.Player
	Old       Status
	New       Status
	cancelled bool
}

// Cancel aborts the transition: nothing is written and no resync happens.
func (r *TransitionRequest) Cancel() { r.cancelled = true }

// Cancelled reports whether any observer cancelled the transition.
func (r *TransitionRequest) Cancelled() bool { return r.cancelled }

// StatusObserver is notified of every pending status change.
type StatusObserver func(req *TransitionRequest)

// BedEnterRequest is delivered before a player is put to sleep in a bed.
type BedEnterRequest struct {
	Player    *model.Player
	Bed       model.Location
	cancelled bool
}

// Cancel keeps the player where they are.
func (r *BedEnterRequest) Cancel() { r.cancelled = true }

// Cancelled reports whether any observer cancelled the bed enter.
func (r *BedEnterRequest) Cancelled() bool { return r.cancelled }

// BedEnterObserver is notified before a natural sleep.
type BedEnterObserver func(req *BedEnterRequest)

// BedLeave describes a player getting out of bed. The bed is assumed to be the
// block directly under the player.
type BedLeave struct {
	Player *model.Player
	Bed    metadata.BlockPos
}

// BedLeaveObserver is notified when a player wakes up from natural sleep.
type BedLeaveObserver func(ev BedLeave)
