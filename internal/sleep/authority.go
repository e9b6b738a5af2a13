package sleep

import (
	"log/slog"

	"github.com/udisondev/sleeper/internal/model"
)

// Resyncer makes every client re-request the entity state of a player.
type Resyncer interface {
	ForceUpdate(player *model.Player)
}

// Relocator moves a player in the world.
type Relocator interface {
	Teleport(player *model.Player, loc model.Location)
}

// Authority is the single entry point for status changes.
// All methods must be called on the logic loop; registration happens before it starts.
type Authority struct {
	store     Store
	resync    Resyncer
	relocator Relocator

	statusObservers   []StatusObserver
	bedEnterObservers []BedEnterObserver
	bedLeaveObservers []BedLeaveObserver
}

// NewAuthority wires an authority. relocator may be nil if SleepNaturally is never used.
func NewAuthority(store Store, resync Resyncer, relocator Relocator) *Authority {
	return &Authority{
		store:     store,
		resync:    resync,
		relocator: relocator,
	}
}

// OnStatusChange registers an observer of pending status changes.
// Observers are called in registration order.
func (a *Authority) OnStatusChange(obs StatusObserver) {
	a.statusObservers = append(a.statusObservers, obs)
}

// OnBedEnter registers an observer of natural bed enters.
func (a *Authority) OnBedEnter(obs BedEnterObserver) {
	a.bedEnterObservers = append(a.bedEnterObservers, obs)
}

// OnBedLeave registers an observer of bed leaves.
func (a *Authority) OnBedLeave(obs BedLeaveObserver) {
	a.bedLeaveObservers = append(a.bedLeaveObservers, obs)
}

// Status returns the current status of player.
func (a *Authority) Status(player *model.Player) Status {
	return a.store.Status(player)
}

// IsSleeping reports whether the player is shown as sleeping.
func (a *Authority) IsSleeping(player *model.Player) bool {
	return a.store.Status(player) != Awake
}

// SetStatus changes the status of player. Returns false if an observer cancelled.
// Setting the current status is a no-op that returns true without notifying anyone.
func (a *Authority) SetStatus(player *model.Player, status Status) bool {
	old := a.store.Status(player)
	if old == status {
		return true
	}

	req := &TransitionRequest{Player: player, Old: old, New: status}
	for _, obs := range a.statusObservers {
		obs(req)
	}
	if req.Cancelled() {
		slog.Debug("sleep status change cancelled", "player", player, "old", old, "new", status)
		return false
	}

	a.store.SetStatus(player, status)
	slog.Debug("sleep status changed", "player", player, "old", old, "new", status)
	if a.resync != nil {
		a.resync.ForceUpdate(player)
	}
	return true
}

// SleepNaturally puts the player to sleep in the bed at bed.
// The player is moved on top of the bed before the status changes.
// Returns false when the player is in forced sleep or the bed enter was cancelled.
func (a *Authority) SleepNaturally(player *model.Player, bed model.Location) bool {
	if a.store.Status(player) == ForcedSleep {
		return false
	}

	req := &BedEnterRequest{Player: player, Bed: bed}
	for _, obs := range a.bedEnterObservers {
		obs(req)
	}
	if req.Cancelled() {
		return false
	}

	if a.relocator != nil {
		a.relocator.Teleport(player, bed.Add(0, 1, 0))
	}
	return a.SetStatus(player, Sleeping)
}

// AttemptWakeUp wakes a naturally sleeping player. Returns false for forced sleep.
// Awake players are left untouched.
func (a *Authority) AttemptWakeUp(player *model.Player) bool {
	switch a.store.Status(player) {
	case Awake:
		return true
	case ForcedSleep:
		return false
	}

	ev := BedLeave{Player: player, Bed: player.Location().Block().Up(-1)}
	for _, obs := range a.bedLeaveObservers {
		obs(ev)
	}
	a.SetStatus(player, Awake)
	return true
}
