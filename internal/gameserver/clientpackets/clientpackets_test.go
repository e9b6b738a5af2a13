package clientpackets

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
)

func body(build func(w *packet.Writer)) []byte {
	w := packet.NewWriter(64)
	build(w)
	return w.Bytes()
}

func frame(opcode int32, build func(w *packet.Writer)) []byte {
	return body(func(w *packet.Writer) {
		w.WriteVarInt(opcode)
		build(w)
	})
}

func TestParseLogin(t *testing.T) {
	data := body(func(w *packet.Writer) {
		w.WriteVarInt(578)
		w.WriteString("Steve")
	})

	pkt, err := ParseLogin(data)
	require.NoError(t, err)
	assert.Equal(t, int32(578), pkt.ProtocolVersion)
	assert.Equal(t, "Steve", pkt.Name)

	_, err = ParseLogin(data[:1])
	assert.Error(t, err)
}

func TestParseChatMessage(t *testing.T) {
	pkt, err := ParseChatMessage(body(func(w *packet.Writer) { w.WriteString("/sleep Steve") }))
	require.NoError(t, err)
	assert.Equal(t, "/sleep Steve", pkt.Text)
	assert.True(t, pkt.IsCommand())

	pkt, err = ParseChatMessage(body(func(w *packet.Writer) { w.WriteString("hello") }))
	require.NoError(t, err)
	assert.False(t, pkt.IsCommand())

	_, err = ParseChatMessage(body(func(w *packet.Writer) { w.WriteString(strings.Repeat("a", 257)) }))
	assert.Error(t, err)
}

func TestParsePlayerPosition(t *testing.T) {
	pkt, err := ParsePlayerPosition(body(func(w *packet.Writer) {
		w.WriteDouble(1.5)
		w.WriteDouble(64)
		w.WriteDouble(-3.25)
		w.WriteBool(true)
	}))
	require.NoError(t, err)
	assert.Equal(t, &PlayerPosition{X: 1.5, Y: 64, Z: -3.25, OnGround: true}, pkt)

	_, err = ParsePlayerPosition(body(func(w *packet.Writer) {
		w.WriteDouble(math.NaN())
		w.WriteDouble(0)
		w.WriteDouble(0)
		w.WriteBool(false)
	}))
	assert.Error(t, err)
}

func TestParseEntityAction(t *testing.T) {
	tests := []struct {
		name   string
		action int32
		want   Action
	}{
		{"leave bed", 2, ActionLeaveBed},
		{"start sneaking", 0, ActionStartSneaking},
		{"stop sprinting", 4, ActionStopSprint},
		{"unknown action kept", 7, Action(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := ParseEntityAction(body(func(w *packet.Writer) {
				w.WriteVarInt(300)
				w.WriteVarInt(tt.action)
				w.WriteVarInt(0)
			}))
			require.NoError(t, err)
			assert.Equal(t, int32(300), pkt.EntityID)
			assert.Equal(t, tt.want, pkt.Action)
		})
	}
	assert.Equal(t, "LEAVE_BED", ActionLeaveBed.String())
	assert.Equal(t, "ACTION(7)", Action(7).String())
}

func TestDecode(t *testing.T) {
	pkt, err := Decode(frame(OpcodeEntityAction, func(w *packet.Writer) {
		w.WriteVarInt(5)
		w.WriteVarInt(int32(ActionLeaveBed))
		w.WriteVarInt(0)
	}))
	require.NoError(t, err)
	assert.Equal(t, int32(OpcodeEntityAction), pkt.Opcode)
	action, ok := pkt.Decoded.(*EntityAction)
	require.True(t, ok)
	assert.Equal(t, ActionLeaveBed, action.Action)

	pkt, err = Decode(frame(0x7E, func(w *packet.Writer) { w.WriteInt(1) }))
	require.NoError(t, err, "unknown opcodes pass through")
	assert.Nil(t, pkt.Decoded)
	assert.Len(t, pkt.Payload, 4)

	_, err = Decode(frame(OpcodeKeepAlive, func(w *packet.Writer) { w.WriteShort(1) }))
	assert.Error(t, err, "truncated keep-alive")
}
