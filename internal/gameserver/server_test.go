package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sleeper/internal/config"
	"github.com/udisondev/sleeper/internal/constants"
	"github.com/udisondev/sleeper/internal/gameserver/clientpackets"
	"github.com/udisondev/sleeper/internal/gameserver/packet"
	"github.com/udisondev/sleeper/internal/gameserver/serverpackets"
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/testutil"
	"github.com/udisondev/sleeper/internal/tick"
	"github.com/udisondev/sleeper/internal/world"
)

const testThreshold = 64

type serverFixture struct {
	srv   *Server
	store *testutil.MockPlayerData
	addr  string
	errCh chan error
	stop  context.CancelFunc
}

func startServer(t *testing.T, setup func(*Server)) *serverFixture {
	t.Helper()

	cfg := config.DefaultServer()
	cfg.Network.CompressionThreshold = testThreshold
	cfg.Network.KeepAliveInterval = 20 * time.Millisecond

	loop := tick.NewLoop(10*time.Millisecond, 256)
	store := testutil.NewMockPlayerData()
	srv, err := NewServer(cfg, world.New(model.NewLocation(0.5, 64, 0.5)), loop, store)
	require.NoError(t, err)
	if setup != nil {
		setup(srv)
	}

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Start(ctx)
	}()

	ln := testutil.ListenTCP(t)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx, ln)
	}()

	t.Cleanup(func() {
		cancel()
		<-loopDone
	})

	return &serverFixture{
		srv:   srv,
		store: store,
		addr:  ln.Addr().String(),
		errCh: errCh,
		stop:  cancel,
	}
}

// join logs in and returns the client together with its entity id.
func (f *serverFixture) join(t *testing.T, name string) (*testutil.PlayClient, int32) {
	t.Helper()

	c, err := testutil.DialPlayClient(t, f.addr, testThreshold)
	require.NoError(t, err)
	require.NoError(t, c.SendLogin(constants.ProtocolVersion1_15_2, name))

	frame, err := c.ReadUntil(serverpackets.OpcodeJoinGame, constants.TestPacketTimeout)
	require.NoError(t, err)
	id, err := packet.NewReader(frame.Body).ReadInt()
	require.NoError(t, err)
	return c, id
}

func leadingVarInt(t *testing.T, body []byte) int32 {
	t.Helper()
	v, err := packet.NewReader(body).ReadVarInt()
	require.NoError(t, err)
	return v
}

func chatText(t *testing.T, body []byte) string {
	t.Helper()
	s, err := packet.NewReader(body).ReadString()
	require.NoError(t, err)
	return s
}

type echoCommands struct{}

func (echoCommands) HandleCommand(player *model.Player, text string) (string, bool) {
	if text == "ping" {
		return "pong " + player.Name(), true
	}
	return "", false
}

func TestServer_LoginSendsJoinSequence(t *testing.T) {
	f := startServer(t, nil)

	c, id := f.join(t, "Alice")
	assert.Positive(t, id)

	_, err := c.ReadUntil(serverpackets.OpcodePlayerPositionLook, constants.TestPacketTimeout)
	require.NoError(t, err)
	meta, err := c.ReadUntil(serverpackets.OpcodeEntityMetadata, constants.TestPacketTimeout)
	require.NoError(t, err)
	assert.Equal(t, id, leadingVarInt(t, meta.Body))

	testutil.Eventually(t, func() bool {
		return f.srv.ClientManager().PlayerCount() == 1
	}, time.Second, "player not registered")
	_, online := f.srv.World().PlayerByName("alice")
	assert.True(t, online)
}

func TestServer_UnsupportedProtocol(t *testing.T) {
	f := startServer(t, nil)

	c, err := testutil.DialPlayClient(t, f.addr, testThreshold)
	require.NoError(t, err)
	require.NoError(t, c.SendLogin(47, "Oldtimer"))

	frame, err := c.ReadUntil(serverpackets.OpcodeDisconnect, constants.TestPacketTimeout)
	require.NoError(t, err)
	assert.Contains(t, chatText(t, frame.Body), "Unsupported protocol")
}

func TestServer_DuplicateLoginRejected(t *testing.T) {
	f := startServer(t, nil)
	f.join(t, "Alice")

	c, err := testutil.DialPlayClient(t, f.addr, testThreshold)
	require.NoError(t, err)
	require.NoError(t, c.SendLogin(constants.ProtocolVersion1_15_2, "alice"))

	frame, err := c.ReadUntil(serverpackets.OpcodeDisconnect, constants.TestPacketTimeout)
	require.NoError(t, err)
	assert.Contains(t, chatText(t, frame.Body), "already logged in")
}

func TestServer_PlayersSeeEachOther(t *testing.T) {
	f := startServer(t, nil)

	alice, aliceID := f.join(t, "Alice")
	bob, bobID := f.join(t, "Bob")

	spawn, err := bob.ReadMatching(serverpackets.OpcodeSpawnPlayer, constants.TestPacketTimeout, func(fr testutil.Frame) bool {
		return leadingVarInt(t, fr.Body) == aliceID
	})
	require.NoError(t, err)
	assert.NotEmpty(t, spawn.Body)

	_, err = alice.ReadMatching(serverpackets.OpcodeSpawnPlayer, constants.TestPacketTimeout, func(fr testutil.Frame) bool {
		return leadingVarInt(t, fr.Body) == bobID
	})
	require.NoError(t, err)
}

func TestServer_MovementBroadcast(t *testing.T) {
	f := startServer(t, nil)

	alice, aliceID := f.join(t, "Alice")
	bob, _ := f.join(t, "Bob")

	require.NoError(t, alice.SendPosition(3.5, 64, 0.5, true))

	_, err := bob.ReadMatching(serverpackets.OpcodeEntityTeleport, constants.TestPacketTimeout, func(fr testutil.Frame) bool {
		return leadingVarInt(t, fr.Body) == aliceID
	})
	require.NoError(t, err)

	p, ok := f.srv.World().PlayerByEntityID(aliceID)
	require.True(t, ok)
	testutil.Eventually(t, func() bool {
		var x float64
		_ = f.srv.Loop().Do(context.Background(), func() { x = p.Location().X })
		return x == 3.5
	}, time.Second, "position not applied")
}

func TestServer_ChatCommandReply(t *testing.T) {
	f := startServer(t, func(s *Server) {
		s.Handler().SetCommands(echoCommands{})
	})

	c, _ := f.join(t, "Alice")
	require.NoError(t, c.SendChat("/ping"))

	_, err := c.ReadMatching(serverpackets.OpcodeChatMessage, constants.TestPacketTimeout, func(fr testutil.Frame) bool {
		return strings.Contains(chatText(t, fr.Body), "pong Alice")
	})
	require.NoError(t, err)

	require.NoError(t, c.SendChat("/nope"))
	_, err = c.ReadMatching(serverpackets.OpcodeChatMessage, constants.TestPacketTimeout, func(fr testutil.Frame) bool {
		return strings.Contains(chatText(t, fr.Body), "Unknown command.")
	})
	require.NoError(t, err)
}

func TestServer_InboundInterceptorCancels(t *testing.T) {
	f := startServer(t, func(s *Server) {
		s.Handler().SetCommands(echoCommands{})
		s.Interceptors().AddInbound("mute", PriorityNormal, InboundFunc(func(ev *InboundEvent) error {
			if ev.Packet.Opcode == clientpackets.OpcodeChatMessage {
				ev.Cancel()
			}
			return nil
		}))
	})

	c, _ := f.join(t, "Alice")
	require.NoError(t, c.SendChat("/ping"))
	require.NoError(t, c.SendKeepAlive(1))

	_, err := c.ReadMatching(serverpackets.OpcodeChatMessage, 300*time.Millisecond, func(testutil.Frame) bool { return true })
	assert.Error(t, err, "cancelled chat must not reach the handler")
}

func TestServer_DisconnectDespawnsAndSaves(t *testing.T) {
	f := startServer(t, nil)
	key := model.MustNamespacedKey("test", "counter")
	f.store.Put("Alice", map[string][]byte{key.String(): {1}})

	alice, aliceID := f.join(t, "Alice")
	bob, _ := f.join(t, "Bob")

	p, ok := f.srv.World().PlayerByEntityID(aliceID)
	require.True(t, ok)

	var loaded byte
	require.NoError(t, f.srv.Loop().Do(context.Background(), func() {
		loaded, _ = p.PersistentData().GetByte(key)
		p.PersistentData().SetByte(key, 2)
	}))
	assert.Equal(t, byte(1), loaded)

	require.NoError(t, alice.Close())

	_, err := bob.ReadMatching(serverpackets.OpcodeDestroyEntities, constants.TestPacketTimeout, func(fr testutil.Frame) bool {
		r := packet.NewReader(fr.Body)
		n, _ := r.ReadVarInt()
		id, _ := r.ReadVarInt()
		return n == 1 && id == aliceID
	})
	require.NoError(t, err)

	testutil.Eventually(t, func() bool {
		stored, ok := f.store.Stored("Alice")
		return ok && len(stored[key.String()]) == 1 && stored[key.String()][0] == 2
	}, 2*time.Second, "player data not saved on disconnect")
}

func TestServer_KeepAliveHook(t *testing.T) {
	f := startServer(t, func(s *Server) {
		s.Loop().Register("keepalive", s.KeepAliveHook())
	})

	c, _ := f.join(t, "Alice")
	frame, err := c.ReadUntil(serverpackets.OpcodeKeepAlive, constants.TestPacketTimeout)
	require.NoError(t, err)

	id, err := packet.NewReader(frame.Body).ReadLong()
	require.NoError(t, err)
	require.NoError(t, c.SendKeepAlive(id))
}

func TestServer_FatalInterceptorStopsServer(t *testing.T) {
	boom := errors.New("host incompatible")
	f := startServer(t, func(s *Server) {
		s.Interceptors().AddOutbound("fatal", PriorityHighest, OutboundFunc(func(ev *OutboundEvent) error {
			if _, ok := ev.Packet.(*serverpackets.EntityMetadata); ok {
				return fmt.Errorf("%w: %w", ErrFatal, boom)
			}
			return nil
		}))
	})

	c, err := testutil.DialPlayClient(t, f.addr, testThreshold)
	require.NoError(t, err)
	require.NoError(t, c.SendLogin(constants.ProtocolVersion1_15_2, "Alice"))

	select {
	case err := <-f.errCh:
		require.ErrorIs(t, err, ErrFatal)
		assert.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop on fatal interceptor error")
	}
}

func TestServer_GracefulShutdown(t *testing.T) {
	f := startServer(t, nil)
	c, _ := f.join(t, "Alice")

	f.stop()

	select {
	case err := <-f.errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	frame, err := c.ReadUntil(serverpackets.OpcodeDisconnect, constants.TestPacketTimeout)
	require.NoError(t, err)
	assert.Contains(t, chatText(t, frame.Body), "Server closed")
}

func TestNewServer_RequiresWorldAndLoop(t *testing.T) {
	_, err := NewServer(config.DefaultServer(), nil, tick.NewLoop(0, 0), nil)
	assert.Error(t, err)
}
