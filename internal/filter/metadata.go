// Package filter projects the sleep status of players onto the wire and turns
// the client's "leave bed" action into a wake-up.
package filter

import (
	"fmt"

	"github.com/udisondev/sleeper/internal/capability"
	"github.com/udisondev/sleeper/internal/gameserver"
	"github.com/udisondev/sleeper/internal/gameserver/serverpackets"
	"github.com/udisondev/sleeper/internal/metadata"
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/sleep"
)

// PlayerLookup finds online players by network entity id.
type PlayerLookup interface {
	PlayerByEntityID(id int32) (*model.Player, bool)
}

// Broadcaster delivers a packet to every in-game client.
type Broadcaster interface {
	BroadcastToAll(pkt serverpackets.Packet) int
}

// Metadata rewrites outbound entity-state packets of players according to their
// sleep status. OnSend runs on client write goroutines.
type Metadata struct {
	resolver    *capability.Resolver
	store       sleep.Store
	players     PlayerLookup
	broadcaster Broadcaster
}

// NewMetadata creates the entity-state rewriter.
func NewMetadata(resolver *capability.Resolver, store sleep.Store, players PlayerLookup, broadcaster Broadcaster) *Metadata {
	return &Metadata{
		resolver:    resolver,
		store:       store,
		players:     players,
		broadcaster: broadcaster,
	}
}

// OnSend implements gameserver.OutboundInterceptor.
// A capability failure is fatal: without the layout nothing can be rewritten.
func (m *Metadata) OnSend(ev *gameserver.OutboundEvent) error {
	pkt, ok := ev.Packet.(*serverpackets.EntityMetadata)
	if !ok {
		return nil
	}
	player, ok := m.players.PlayerByEntityID(pkt.EntityID)
	if !ok {
		return nil
	}

	bundle, err := m.resolver.Resolve(player)
	if err != nil {
		return fmt.Errorf("%w: %w", gameserver.ErrFatal, err)
	}

	ev.Packet = Rewrite(pkt, bundle, m.store.Status(player), player.Location().Block())
	return nil
}

// Rewrite returns a copy of pkt with the sleep fields for status applied.
// Awake clears the bed position; any sleeping status forces the sleeping pose
// and a bed position at pos. Other entries keep their order.
func Rewrite(pkt *serverpackets.EntityMetadata, bundle *capability.Bundle, status sleep.Status, pos metadata.BlockPos) *serverpackets.EntityMetadata {
	entries := pkt.Entries.Clone()
	if status == sleep.Awake {
		entries.Put(metadata.Entry{Index: bundle.BedPositionIndex, Value: bundle.BedPosition(nil)})
	} else {
		entries.Put(metadata.Entry{Index: bundle.PoseIndex, Value: bundle.SleepingPose})
		entries.Put(metadata.Entry{Index: bundle.BedPositionIndex, Value: bundle.BedPosition(&pos)})
	}
	return pkt.WithEntries(entries)
}

// ForceUpdate sends the unchanged flags field of player to every client.
// Each copy passes through OnSend on its own connection, which is what carries
// the new pose and bed position.
func (m *Metadata) ForceUpdate(player *model.Player) {
	index := metadata.IndexFlags
	if b, ok := m.resolver.Resolved(); ok {
		index = b.FlagsIndex
	}
	flags, _ := player.Metadata().Byte(index)
	pkt := serverpackets.NewEntityMetadata(player.EntityID(), metadata.List{
		{Index: index, Value: metadata.Byte(flags)},
	})
	m.broadcaster.BroadcastToAll(pkt)
}

// Register adds the rewriter to the outbound chain at Highest priority,
// after anything else that shapes entity state.
func (m *Metadata) Register(ic *gameserver.Interceptors) {
	ic.AddOutbound("sleep-metadata", gameserver.PriorityHighest, m)
}
