package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sleeper/internal/gameserver/serverpackets"
	"github.com/udisondev/sleeper/internal/testutil"
)

func TestBroadcastToAll(t *testing.T) {
	cm := NewClientManager()
	var clients []*GameClient
	for i := range int32(5) {
		c, _ := newInGameClient(t, cm, i+1, string(rune('a'+i))+"player", 8)
		clients = append(clients, c)
	}

	sent := cm.BroadcastToAll(&serverpackets.KeepAlive{ID: 1})

	assert.Equal(t, 5, sent)
	for _, c := range clients {
		assert.Len(t, c.sendCh, 1)
	}
}

func TestBroadcastToAll_SkipsClientsNotInGame(t *testing.T) {
	cm := NewClientManager()
	inGame, _ := newInGameClient(t, cm, 1, "Ready", 8)
	entering, _ := newInGameClient(t, cm, 2, "Loading", 8)
	entering.SetState(ClientStateEntering)

	lobby, err := NewGameClient(testutil.NewMockConn(), ClientOptions{})
	require.NoError(t, err)
	cm.Register(lobby)

	sent := cm.BroadcastToAll(&serverpackets.KeepAlive{ID: 1})

	assert.Equal(t, 1, sent)
	assert.Len(t, inGame.sendCh, 1)
	assert.Empty(t, entering.sendCh)
	assert.Empty(t, lobby.sendCh)
}

func TestBroadcastToAll_SlowClientIsolated(t *testing.T) {
	cm := NewClientManager()
	slow, _ := newInGameClient(t, cm, 1, "Slow", 1)
	fast, _ := newInGameClient(t, cm, 2, "Fast", 8)

	require.NoError(t, slow.Send(&serverpackets.KeepAlive{ID: 0}))

	sent := cm.BroadcastToAll(&serverpackets.KeepAlive{ID: 1})

	assert.Equal(t, 1, sent)
	assert.Len(t, fast.sendCh, 1)
	assert.Equal(t, ClientStateDisconnected, slow.State(), "full outbox disconnects the slow client")

	// The slow client is skipped from now on, the other one still receives.
	sent = cm.BroadcastToAll(&serverpackets.KeepAlive{ID: 2})
	assert.Equal(t, 1, sent)
	assert.Len(t, fast.sendCh, 2)
}

func TestBroadcastExcept(t *testing.T) {
	cm := NewClientManager()
	self, player := newInGameClient(t, cm, 1, "Mover", 8)
	other, _ := newInGameClient(t, cm, 2, "Watcher", 8)

	sent := cm.BroadcastExcept(player, &serverpackets.KeepAlive{ID: 1})

	assert.Equal(t, 1, sent)
	assert.Empty(t, self.sendCh)
	assert.Len(t, other.sendCh, 1)
}

func TestBroadcastToAll_SharesPacketValue(t *testing.T) {
	cm := NewClientManager()
	a, _ := newInGameClient(t, cm, 1, "Alpha", 8)
	b, _ := newInGameClient(t, cm, 2, "Beta", 8)

	pkt := &serverpackets.KeepAlive{ID: 3}
	cm.BroadcastToAll(pkt)

	assert.Same(t, pkt, <-a.sendCh)
	assert.Same(t, pkt, <-b.sendCh)
}
