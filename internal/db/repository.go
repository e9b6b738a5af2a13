package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUnknownDriver is returned by Open for an unsupported storage driver.
var ErrUnknownDriver = errors.New("unknown storage driver")

// PlayerData is the persisted data container of one player.
type PlayerData struct {
	UUID   uuid.UUID
	Name   string
	Values map[string][]byte
}

// PlayerDataRepository stores player data containers.
type PlayerDataRepository interface {
	// Load returns the stored values, an empty map if the player is unknown.
	Load(ctx context.Context, id uuid.UUID) (map[string][]byte, error)
	// Save replaces all stored values of the player.
	Save(ctx context.Context, data PlayerData) error
	// Close releases the underlying connections.
	Close() error
}
