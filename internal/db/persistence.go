package db

import (
	"context"
	"fmt"

	"github.com/udisondev/sleeper/internal/model"
)

// PlayerPersistenceService loads and saves the persistent data container of players.
type PlayerPersistenceService struct {
	repo PlayerDataRepository
}

// NewPlayerPersistenceService создаёт новый сервис.
func NewPlayerPersistenceService(repo PlayerDataRepository) *PlayerPersistenceService {
	return &PlayerPersistenceService{repo: repo}
}

// LoadPlayer replaces the player's container with the stored values.
func (s *PlayerPersistenceService) LoadPlayer(ctx context.Context, player *model.Player) error {
	values, err := s.repo.Load(ctx, player.UUID())
	if err != nil {
		return fmt.Errorf("loading data of %s: %w", player, err)
	}
	player.PersistentData().Load(values)
	return nil
}

// SavePlayer stores a snapshot of the player's container.
// On failure the container stays dirty so the next save retries.
func (s *PlayerPersistenceService) SavePlayer(ctx context.Context, player *model.Player) error {
	data := PlayerData{
		UUID:   player.UUID(),
		Name:   player.Name(),
		Values: player.PersistentData().Checkpoint(),
	}
	if err := s.repo.Save(ctx, data); err != nil {
		player.PersistentData().MarkDirty()
		return fmt.Errorf("saving data of %s: %w", player, err)
	}
	return nil
}
