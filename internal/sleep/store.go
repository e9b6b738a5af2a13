package sleep

import "github.com/udisondev/sleeper/internal/model"

// Store persists the status of a player. Implementations never fail: an absent
// or unreadable value reads as Awake.
type Store interface {
	Status(player *model.Player) Status
	SetStatus(player *model.Player, status Status)
}

// ContainerStore keeps the status byte in the player's persistent data container.
// Reads are safe from any goroutine.
type ContainerStore struct{}

// NewContainerStore returns a store over player data containers.
func NewContainerStore() *ContainerStore {
	return &ContainerStore{}
}

// Status returns the stored status, Awake when unset or unknown.
func (*ContainerStore) Status(player *model.Player) Status {
	b, ok := player.PersistentData().GetByte(StatusKey)
	if !ok {
		return Awake
	}
	s := Status(b)
	if !s.Valid() {
		return Awake
	}
	return s
}

// SetStatus overwrites the stored byte unconditionally.
func (*ContainerStore) SetStatus(player *model.Player, status Status) {
	player.PersistentData().SetByte(StatusKey, byte(status))
}
