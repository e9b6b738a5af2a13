package sleep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sleeper/internal/metadata"
	"github.com/udisondev/sleeper/internal/model"
)

type recordingResync struct {
	calls []*model.Player
}

func (r *recordingResync) ForceUpdate(p *model.Player) { r.calls = append(r.calls, p) }

type recordingRelocator struct {
	moves []model.Location
}

func (r *recordingRelocator) Teleport(p *model.Player, loc model.Location) {
	r.moves = append(r.moves, loc)
	p.SetLocation(loc)
}

type fixture struct {
	auth      *Authority
	store     *ContainerStore
	resync    *recordingResync
	relocator *recordingRelocator
	player    *model.Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p, err := model.NewPlayer(7, "Sleeper", model.NewLocation(10.5, 64, -3.5))
	require.NoError(t, err)

	f := &fixture{
		store:     NewContainerStore(),
		resync:    &recordingResync{},
		relocator: &recordingRelocator{},
		player:    p,
	}
	f.auth = NewAuthority(f.store, f.resync, f.relocator)
	return f
}

func TestContainerStore(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, Awake, f.store.Status(f.player), "unset reads as awake")

	for _, s := range []Status{Sleeping, ForcedSleep, Awake} {
		f.store.SetStatus(f.player, s)
		assert.Equal(t, s, f.store.Status(f.player))
	}

	b, ok := f.player.PersistentData().GetByte(StatusKey)
	require.True(t, ok)
	assert.Equal(t, byte(0), b)
	assert.Equal(t, "sleeper:sleep_status", StatusKey.String())
}

func TestContainerStore_UnknownOrdinalReadsAwake(t *testing.T) {
	f := newFixture(t)
	f.player.PersistentData().SetByte(StatusKey, 42)
	assert.Equal(t, Awake, f.store.Status(f.player))

	f.player.PersistentData().Set(StatusKey, []byte{1, 2})
	assert.Equal(t, Awake, f.store.Status(f.player))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "AWAKE", Awake.String())
	assert.Equal(t, "SLEEPING", Sleeping.String())
	assert.Equal(t, "FORCED_SLEEP", ForcedSleep.String())
	assert.Equal(t, "STATUS(9)", Status(9).String())

	s, ok := ParseStatus("forced_sleep")
	assert.True(t, ok)
	assert.Equal(t, ForcedSleep, s)
	_, ok = ParseStatus("dozing")
	assert.False(t, ok)
}

func TestSetStatus_WritesAndResyncs(t *testing.T) {
	for _, target := range []Status{Sleeping, ForcedSleep} {
		t.Run(target.String(), func(t *testing.T) {
			f := newFixture(t)
			var seen []*TransitionRequest
			f.auth.OnStatusChange(func(req *TransitionRequest) { seen = append(seen, req) })

			assert.True(t, f.auth.SetStatus(f.player, target))
			assert.Equal(t, target, f.auth.Status(f.player))
			assert.True(t, f.auth.IsSleeping(f.player))

			require.Len(t, seen, 1)
			assert.Equal(t, Awake, seen[0].Old)
			assert.Equal(t, target, seen[0].New)
			assert.Same(t, f.player, seen[0].Player)
			assert.Len(t, f.resync.calls, 1)
		})
	}
}

func TestSetStatus_SameStatusIsSilent(t *testing.T) {
	f := newFixture(t)
	notified := 0
	f.auth.OnStatusChange(func(*TransitionRequest) { notified++ })

	assert.True(t, f.auth.SetStatus(f.player, Awake))
	assert.Zero(t, notified)
	assert.Empty(t, f.resync.calls)
	assert.False(t, f.player.PersistentData().Has(StatusKey), "no write for a no-op")
}

func TestSetStatus_CancelLeavesStatus(t *testing.T) {
	f := newFixture(t)
	f.store.SetStatus(f.player, Sleeping)

	var order []string
	f.auth.OnStatusChange(func(req *TransitionRequest) {
		order = append(order, "first")
		req.Cancel()
	})
	f.auth.OnStatusChange(func(req *TransitionRequest) {
		order = append(order, "second")
		assert.True(t, req.Cancelled(), "later observers see the cancel")
	})

	assert.False(t, f.auth.SetStatus(f.player, ForcedSleep))
	assert.Equal(t, Sleeping, f.auth.Status(f.player))
	assert.Empty(t, f.resync.calls)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSetStatus_ObserverSeesStatusBeforeWrite(t *testing.T) {
	f := newFixture(t)
	f.auth.OnStatusChange(func(req *TransitionRequest) {
		assert.Equal(t, Awake, f.store.Status(req.Player))
	})
	assert.True(t, f.auth.SetStatus(f.player, Sleeping))
}

// Scenario A: natural sleep moves the player on top of the bed and resyncs.
func TestSleepNaturally(t *testing.T) {
	f := newFixture(t)
	bed := model.NewLocation(100, 70, 200)

	assert.True(t, f.auth.SleepNaturally(f.player, bed))
	assert.Equal(t, Sleeping, f.auth.Status(f.player))
	assert.Len(t, f.resync.calls, 1)
	require.Len(t, f.relocator.moves, 1)
	assert.Equal(t, model.NewLocation(100, 71, 200), f.player.Location())
}

func TestSleepNaturally_RelocatesBeforeTransition(t *testing.T) {
	f := newFixture(t)
	bed := model.NewLocation(1, 2, 3)
	f.auth.OnStatusChange(func(req *TransitionRequest) {
		assert.Equal(t, bed.Add(0, 1, 0), req.Player.Location())
	})
	assert.True(t, f.auth.SleepNaturally(f.player, bed))
}

func TestSleepNaturally_ForcedSleepRefused(t *testing.T) {
	f := newFixture(t)
	f.store.SetStatus(f.player, ForcedSleep)
	before := f.player.Location()

	assert.False(t, f.auth.SleepNaturally(f.player, model.NewLocation(0, 0, 0)))
	assert.Equal(t, ForcedSleep, f.auth.Status(f.player))
	assert.Equal(t, before, f.player.Location())
	assert.Empty(t, f.resync.calls)
}

func TestSleepNaturally_BedEnterCancelled(t *testing.T) {
	f := newFixture(t)
	bed := model.NewLocation(5, 60, 5)
	f.auth.OnBedEnter(func(req *BedEnterRequest) {
		assert.Equal(t, bed, req.Bed)
		req.Cancel()
	})

	assert.False(t, f.auth.SleepNaturally(f.player, bed))
	assert.Equal(t, Awake, f.auth.Status(f.player))
	assert.Empty(t, f.relocator.moves)
	assert.Empty(t, f.resync.calls)
}

func TestSleepNaturally_StatusCancelKeepsRelocation(t *testing.T) {
	f := newFixture(t)
	f.auth.OnStatusChange(func(req *TransitionRequest) { req.Cancel() })

	assert.False(t, f.auth.SleepNaturally(f.player, model.NewLocation(0, 64, 0)))
	assert.Equal(t, Awake, f.auth.Status(f.player))
	assert.Len(t, f.relocator.moves, 1)
}

func TestAttemptWakeUp_Awake(t *testing.T) {
	f := newFixture(t)
	notified := 0
	f.auth.OnStatusChange(func(*TransitionRequest) { notified++ })
	f.auth.OnBedLeave(func(BedLeave) { notified++ })

	assert.True(t, f.auth.AttemptWakeUp(f.player))
	assert.Zero(t, notified)
	assert.Empty(t, f.resync.calls)
}

func TestAttemptWakeUp_Sleeping(t *testing.T) {
	f := newFixture(t)
	f.store.SetStatus(f.player, Sleeping)

	var leaves []BedLeave
	f.auth.OnBedLeave(func(ev BedLeave) { leaves = append(leaves, ev) })

	assert.True(t, f.auth.AttemptWakeUp(f.player))
	assert.Equal(t, Awake, f.auth.Status(f.player))
	assert.Len(t, f.resync.calls, 1)

	require.Len(t, leaves, 1)
	assert.Equal(t, metadata.BlockPos{X: 10, Y: 63, Z: -4}, leaves[0].Bed)
}

func TestAttemptWakeUp_ForcedSleep(t *testing.T) {
	f := newFixture(t)
	f.store.SetStatus(f.player, ForcedSleep)
	leaves := 0
	f.auth.OnBedLeave(func(BedLeave) { leaves++ })

	assert.False(t, f.auth.AttemptWakeUp(f.player))
	assert.Equal(t, ForcedSleep, f.auth.Status(f.player))
	assert.Zero(t, leaves)
	assert.Empty(t, f.resync.calls)
}

func TestForcedSleep_OnlyLiftedBySetStatus(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.auth.SetStatus(f.player, ForcedSleep))
	require.False(t, f.auth.AttemptWakeUp(f.player))
	require.False(t, f.auth.SleepNaturally(f.player, model.NewLocation(0, 64, 0)))

	assert.True(t, f.auth.SetStatus(f.player, Awake))
	assert.False(t, f.auth.IsSleeping(f.player))
}

func TestAuthority_NilCollaborators(t *testing.T) {
	p, err := model.NewPlayer(1, "Solo", model.NewLocation(0, 64, 0))
	require.NoError(t, err)
	auth := NewAuthority(NewContainerStore(), nil, nil)

	assert.True(t, auth.SleepNaturally(p, model.NewLocation(0, 10, 0)))
	assert.Equal(t, Sleeping, auth.Status(p))
	assert.Equal(t, model.NewLocation(0, 64, 0), p.Location())
}
