package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sleeper/internal/gameserver/admin"
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/sleep"
)

type fakeClients struct {
	players   []*model.Player
	kicked    map[string]string
	announced []string
}

func (f *fakeClients) FindPlayerByName(name string) *model.Player {
	for _, p := range f.players {
		if strings.EqualFold(p.Name(), name) {
			return p
		}
	}
	return nil
}

func (f *fakeClients) ForEachPlayer(fn func(*model.Player) bool) {
	for _, p := range f.players {
		if !fn(p) {
			return
		}
	}
}

func (f *fakeClients) PlayerCount() int { return len(f.players) }

func (f *fakeClients) KickPlayer(name, reason string) bool {
	if f.FindPlayerByName(name) == nil {
		return false
	}
	f.kicked[name] = reason
	return true
}

func (f *fakeClients) Announce(text string) int {
	f.announced = append(f.announced, text)
	return len(f.players)
}

type fakeTeleporter struct{}

func (fakeTeleporter) Teleport(p *model.Player, loc model.Location) { p.SetLocation(loc) }

type fakeResync struct{ n int }

func (r *fakeResync) ForceUpdate(*model.Player) { r.n++ }

type env struct {
	handler *admin.Handler
	clients *fakeClients
	auth    *sleep.Authority
	resync  *fakeResync
	op      *model.Player
	user    *model.Player
}

func newEnv(t *testing.T) *env {
	t.Helper()
	op, err := model.NewPlayer(1, "Admin", model.NewLocation(0.5, 64, 0.5))
	require.NoError(t, err)
	user, err := model.NewPlayer(2, "Steve", model.NewLocation(10.5, 70, -3.5))
	require.NoError(t, err)

	e := &env{
		handler: admin.NewHandler(admin.NewOperatorList([]string{"Admin"})),
		clients: &fakeClients{players: []*model.Player{op, user}, kicked: map[string]string{}},
		resync:  &fakeResync{},
		op:      op,
		user:    user,
	}
	e.auth = sleep.NewAuthority(sleep.NewContainerStore(), e.resync, fakeTeleporter{})
	RegisterAll(e.handler, e.clients, fakeTeleporter{}, e.auth)
	return e
}

func (e *env) run(t *testing.T, p *model.Player, text string) string {
	t.Helper()
	reply, handled := e.handler.HandleCommand(p, text)
	require.True(t, handled, "command %q not registered", text)
	return reply
}

func TestSleep_Toggles(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, "Steve is now sleeping.", e.run(t, e.op, "sleep steve"))
	assert.Equal(t, sleep.Sleeping, e.auth.Status(e.user))

	assert.Equal(t, "Steve is now awake.", e.run(t, e.op, "sleep Steve"))
	assert.Equal(t, sleep.Awake, e.auth.Status(e.user))
	assert.Equal(t, 2, e.resync.n)
}

func TestSleep_FromForcedGoesToSleeping(t *testing.T) {
	e := newEnv(t)
	e.run(t, e.op, "forcesleep Steve")

	e.run(t, e.op, "sleep Steve")
	assert.Equal(t, sleep.Sleeping, e.auth.Status(e.user))
}

func TestSleep_Self(t *testing.T) {
	e := newEnv(t)
	e.run(t, e.op, "sleep")
	assert.Equal(t, sleep.Sleeping, e.auth.Status(e.op))
}

func TestSleep_UnknownTarget(t *testing.T) {
	e := newEnv(t)
	reply := e.run(t, e.op, "sleep Herobrine")
	assert.Contains(t, reply, `player "Herobrine" not found`)
}

func TestSleep_OperatorOnly(t *testing.T) {
	e := newEnv(t)
	for _, cmd := range []string{"sleep Admin", "forcesleep Admin", "wake Admin", "kick Admin", "tp 0 0 0", "announce hi"} {
		reply := e.run(t, e.user, cmd)
		assert.Contains(t, reply, "permission", cmd)
	}
	assert.Equal(t, sleep.Awake, e.auth.Status(e.op))
}

func TestSleep_Cancelled(t *testing.T) {
	e := newEnv(t)
	e.auth.OnStatusChange(func(req *sleep.TransitionRequest) { req.Cancel() })

	assert.Equal(t, "Status change of Steve was cancelled.", e.run(t, e.op, "sleep Steve"))
	assert.Equal(t, sleep.Awake, e.auth.Status(e.user))
}

func TestForceSleepAndWake(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, "Steve is now in forced sleep.", e.run(t, e.op, "forcesleep Steve"))
	assert.Equal(t, sleep.ForcedSleep, e.auth.Status(e.user))
	assert.False(t, e.auth.AttemptWakeUp(e.user))

	assert.Equal(t, "Steve is now awake.", e.run(t, e.op, "wake Steve"))
	assert.Equal(t, sleep.Awake, e.auth.Status(e.user))
}

func TestBed(t *testing.T) {
	e := newEnv(t)
	before := e.user.Location()

	assert.Equal(t, "You lie down.", e.run(t, e.user, "bed"))
	assert.Equal(t, sleep.Sleeping, e.auth.Status(e.user))
	assert.Equal(t, before, e.user.Location())

	e.run(t, e.op, "forcesleep Steve")
	assert.Equal(t, "You can't sleep now.", e.run(t, e.user, "bed"))
}

func TestSleepStatus(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, "Steve: AWAKE", e.run(t, e.user, "sleepstatus"))
	e.run(t, e.op, "forcesleep Steve")
	assert.Equal(t, "Steve: FORCED_SLEEP", e.run(t, e.op, "sleepstatus steve"))
}

func TestKick(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, "Kicked player Steve", e.run(t, e.op, "kick Steve be nice"))
	assert.Equal(t, "be nice", e.clients.kicked["Steve"])

	assert.Contains(t, e.run(t, e.op, "kick"), "usage")
	assert.Contains(t, e.run(t, e.op, "kick Nobody"), "not found")
}

func TestAnnounce(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, "Announced to 2 players", e.run(t, e.op, "announce restart soon"))
	assert.Equal(t, []string{"[Server] restart soon"}, e.clients.announced)
}

func TestTeleport(t *testing.T) {
	e := newEnv(t)

	e.run(t, e.op, "tp 100 65.5 -20")
	loc := e.op.Location()
	assert.Equal(t, 100.0, loc.X)
	assert.Equal(t, 65.5, loc.Y)
	assert.Equal(t, -20.0, loc.Z)

	e.run(t, e.op, "goto Steve")
	assert.Equal(t, e.user.Location(), e.op.Location())

	e.op.SetLocation(model.NewLocation(1, 2, 3))
	e.run(t, e.op, "recall Steve")
	assert.Equal(t, model.NewLocation(1, 2, 3), e.user.Location())

	assert.Contains(t, e.run(t, e.op, "tp 1 x 3"), "invalid y")
	assert.Contains(t, e.run(t, e.op, "tp 1 NaN 3"), "finite")
	assert.Contains(t, e.run(t, e.op, "goto Nobody"), "not found")
}

func TestUserCommands(t *testing.T) {
	e := newEnv(t)

	assert.Contains(t, e.run(t, e.user, "loc"), "block 10 70 -4")
	assert.Equal(t, "Online: 2 players: Admin, Steve", e.run(t, e.user, "online"))
	help := e.run(t, e.user, "help")
	assert.Contains(t, help, "/sleep")
	assert.Contains(t, help, "/sleepstatus")
}
