package filter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sleeper/internal/gameserver"
	"github.com/udisondev/sleeper/internal/gameserver/clientpackets"
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/sleep"
	"github.com/udisondev/sleeper/internal/testutil"
	"github.com/udisondev/sleeper/internal/tick"
)

type nopResync struct{ calls int }

func (r *nopResync) ForceUpdate(*model.Player) { r.calls++ }

type leaveBedFixture struct {
	loop   *tick.Loop
	auth   *sleep.Authority
	store  *sleep.ContainerStore
	resync *nopResync
	client *gameserver.GameClient
	player *model.Player
	filter *LeaveBed
}

func newLeaveBedFixture(t *testing.T) *leaveBedFixture {
	t.Helper()

	loop := tick.NewLoop(time.Hour, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	p, err := model.NewPlayer(3, "Napper", model.NewLocation(0, 64, 0))
	require.NoError(t, err)
	client, err := gameserver.NewGameClient(testutil.NewMockConn(), gameserver.ClientOptions{})
	require.NoError(t, err)
	client.SetActivePlayer(p)

	f := &leaveBedFixture{
		loop:   loop,
		store:  sleep.NewContainerStore(),
		resync: &nopResync{},
		client: client,
		player: p,
	}
	f.auth = sleep.NewAuthority(f.store, f.resync, nil)
	f.filter = NewLeaveBed(loop, f.auth)
	return f
}

func (f *leaveBedFixture) receive(t *testing.T, action clientpackets.Action) *gameserver.InboundEvent {
	t.Helper()
	ev := &gameserver.InboundEvent{
		Client: f.client,
		Packet: &clientpackets.Packet{
			Opcode:  clientpackets.OpcodeEntityAction,
			Decoded: &clientpackets.EntityAction{EntityID: f.player.EntityID(), Action: action},
		},
	}
	require.NoError(t, f.filter.OnReceive(ev))
	return ev
}

// flush waits until everything submitted before it ran on the loop.
func (f *leaveBedFixture) flush(t *testing.T) {
	t.Helper()
	require.NoError(t, f.loop.Do(testutil.ContextWithTimeout(t, time.Second), func() {}))
}

// Scenario B: a sleeping player's leave-bed action wakes them on the logic loop.
func TestLeaveBed_WakesSleepingPlayer(t *testing.T) {
	f := newLeaveBedFixture(t)
	f.store.SetStatus(f.player, sleep.Sleeping)

	ev := f.receive(t, clientpackets.ActionLeaveBed)
	f.flush(t)

	assert.False(t, ev.Cancelled(), "the packet still reaches the host")
	assert.Equal(t, sleep.Awake, f.store.Status(f.player))
	assert.Equal(t, 1, f.resync.calls)
}

// Scenario C: forced sleep ignores the client's request.
func TestLeaveBed_ForcedSleepStays(t *testing.T) {
	f := newLeaveBedFixture(t)
	f.store.SetStatus(f.player, sleep.ForcedSleep)

	f.receive(t, clientpackets.ActionLeaveBed)
	f.flush(t)

	assert.Equal(t, sleep.ForcedSleep, f.store.Status(f.player))
	assert.Zero(t, f.resync.calls)
}

func TestLeaveBed_OtherActionsIgnored(t *testing.T) {
	f := newLeaveBedFixture(t)
	f.store.SetStatus(f.player, sleep.Sleeping)

	for _, a := range []clientpackets.Action{
		clientpackets.ActionStartSneaking,
		clientpackets.ActionStopSneaking,
		clientpackets.ActionStartSprint,
		clientpackets.ActionStopSprint,
	} {
		f.receive(t, a)
	}
	f.flush(t)

	assert.Equal(t, sleep.Sleeping, f.store.Status(f.player))
}

func TestLeaveBed_DoesNotTouchStateInline(t *testing.T) {
	f := newLeaveBedFixture(t)
	f.store.SetStatus(f.player, sleep.Sleeping)

	// Hold the loop so the scheduled wake-up cannot run yet.
	release := make(chan struct{})
	require.True(t, f.loop.Submit(func() { <-release }))

	f.receive(t, clientpackets.ActionLeaveBed)
	assert.Equal(t, sleep.Sleeping, f.store.Status(f.player))

	close(release)
	f.flush(t)
	assert.Equal(t, sleep.Awake, f.store.Status(f.player))
}

func TestLeaveBed_NoActivePlayer(t *testing.T) {
	f := newLeaveBedFixture(t)
	f.client.SetActivePlayer(nil)

	f.receive(t, clientpackets.ActionLeaveBed)
	f.flush(t)
	assert.Zero(t, f.resync.calls)
}

func TestLeaveBed_UndecodedPacket(t *testing.T) {
	f := newLeaveBedFixture(t)
	ev := &gameserver.InboundEvent{Client: f.client, Packet: &clientpackets.Packet{Opcode: 0x7F}}
	assert.NoError(t, f.filter.OnReceive(ev))
}
