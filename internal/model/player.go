package model

import (
	"crypto/md5"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/sleeper/internal/metadata"
)

// MaxNameLength is the longest accepted player name.
const MaxNameLength = 16

// Player: игровой персонаж, подключённый к серверу.
// EntityID is the network entity id used by every entity packet.
type Player struct {
	entityID int32
	name     string
	uuid     uuid.UUID

	mu       sync.RWMutex
	location Location
	onGround bool

	metadata *metadata.Tracker
	data     *DataContainer
}

// NewPlayer creates a player entity at loc.
func NewPlayer(entityID int32, name string, loc Location) (*Player, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if !loc.IsFinite() {
		return nil, fmt.Errorf("player %q: invalid location %+v", name, loc)
	}
	return &Player{
		entityID: entityID,
		name:     name,
		uuid:     OfflineUUID(name),
		location: loc,
		metadata: metadata.NewTracker(),
		data:     NewDataContainer(),
	}, nil
}

// ValidateName checks a player name: 1..16 chars of [A-Za-z0-9_].
func ValidateName(name string) error {
	if len(name) == 0 || len(name) > MaxNameLength {
		return fmt.Errorf("invalid player name length %d", len(name))
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return fmt.Errorf("invalid character %q in player name", r)
		}
	}
	return nil
}

// OfflineUUID derives the offline-mode player UUID: a version 3 UUID over
// "OfflinePlayer:<name>", as vanilla servers do without authentication.
func OfflineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	id, _ := uuid.FromBytes(sum[:])
	return id
}

// UUID возвращает offline UUID игрока.
func (p *Player) UUID() uuid.UUID {
	return p.uuid
}

// EntityID возвращает сетевой ID сущности (immutable после создания).
func (p *Player) EntityID() int32 {
	return p.entityID
}

// Name возвращает имя игрока (immutable).
func (p *Player) Name() string {
	return p.name
}

// Location возвращает копию координат игрока.
func (p *Player) Location() Location {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.location
}

// SetLocation устанавливает новые координаты игрока.
func (p *Player) SetLocation(loc Location) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = loc
}

// OnGround reports the last on-ground flag sent by the client.
func (p *Player) OnGround() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.onGround
}

// SetOnGround stores the client's on-ground flag.
func (p *Player) SetOnGround(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onGround = v
}

// Metadata returns the entity-state tracker.
func (p *Player) Metadata() *metadata.Tracker {
	return p.metadata
}

// PersistentData returns the player's persistent key/value container.
func (p *Player) PersistentData() *DataContainer {
	return p.data
}

func (p *Player) String() string {
	return fmt.Sprintf("%s#%d", p.name, p.entityID)
}
