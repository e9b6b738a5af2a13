package testutil

import (
	"bufio"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/udisondev/sleeper/internal/gameserver/packet"
	"github.com/udisondev/sleeper/internal/protocol"
)

// Client packet ids used by the test client.
const (
	opLogin          = 0x00
	opChatMessage    = 0x03
	opKeepAlive      = 0x0F
	opPlayerPosition = 0x11
	opEntityAction   = 0x1B
)

// Frame is one received server packet split into id and body.
type Frame struct {
	Opcode int32
	Body   []byte
}

// PlayClient: тестовый клиент play-протокола поверх TCP.
type PlayClient struct {
	conn  net.Conn
	rd    *bufio.Reader
	codec *protocol.Codec
}

// DialPlayClient подключается к серверу; threshold должен совпадать с сервером.
// Закрывается автоматически при завершении теста.
func DialPlayClient(t testing.TB, addr string, threshold int) (*PlayClient, error) {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c := &PlayClient{
		conn:  conn,
		rd:    bufio.NewReader(conn),
		codec: protocol.NewCodec(threshold),
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, nil
}

func (c *PlayClient) send(opcode int32, fill func(w *packet.Writer)) error {
	w := packet.NewWriter(64)
	w.WriteVarInt(opcode)
	if fill != nil {
		fill(w)
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second)); err != nil {
		return err
	}
	return c.codec.WriteFrame(c.conn, w.Bytes())
}

// SendLogin отправляет Login(protocolVersion, name).
func (c *PlayClient) SendLogin(protocolVersion int32, name string) error {
	return c.send(opLogin, func(w *packet.Writer) {
		w.WriteVarInt(protocolVersion)
		w.WriteString(name)
	})
}

// SendChat отправляет сообщение или команду.
func (c *PlayClient) SendChat(text string) error {
	return c.send(opChatMessage, func(w *packet.Writer) { w.WriteString(text) })
}

// SendKeepAlive отвечает на keep-alive.
func (c *PlayClient) SendKeepAlive(id int64) error {
	return c.send(opKeepAlive, func(w *packet.Writer) { w.WriteLong(id) })
}

// SendPosition отправляет новую позицию игрока.
func (c *PlayClient) SendPosition(x, y, z float64, onGround bool) error {
	return c.send(opPlayerPosition, func(w *packet.Writer) {
		w.WriteDouble(x)
		w.WriteDouble(y)
		w.WriteDouble(z)
		w.WriteBool(onGround)
	})
}

// SendEntityAction отправляет EntityAction.
func (c *PlayClient) SendEntityAction(entityID, action int32) error {
	return c.send(opEntityAction, func(w *packet.Writer) {
		w.WriteVarInt(entityID)
		w.WriteVarInt(action)
		w.WriteVarInt(0)
	})
}

// ReadFrame читает следующий пакет сервера.
func (c *PlayClient) ReadFrame(timeout time.Duration) (Frame, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Frame{}, err
	}
	payload, err := c.codec.ReadFrame(c.rd)
	if err != nil {
		return Frame{}, err
	}
	r := packet.NewReader(payload)
	opcode, err := r.ReadVarInt()
	if err != nil {
		return Frame{}, fmt.Errorf("reading opcode: %w", err)
	}
	body, _ := r.ReadBytes(r.Remaining())
	return Frame{Opcode: opcode, Body: body}, nil
}

// ReadUntil читает пакеты пока не встретит opcode (остальные пропускает).
func (c *PlayClient) ReadUntil(opcode int32, timeout time.Duration) (Frame, error) {
	deadline := time.Now().Add(timeout)
	for {
		left := time.Until(deadline)
		if left <= 0 {
			return Frame{}, fmt.Errorf("packet 0x%02X not received within %v", opcode, timeout)
		}
		f, err := c.ReadFrame(left)
		if err != nil {
			return Frame{}, fmt.Errorf("waiting for packet 0x%02X: %w", opcode, err)
		}
		if f.Opcode == opcode {
			return f, nil
		}
	}
}

// ReadMatching читает пакеты с данным opcode пока match не вернёт true.
func (c *PlayClient) ReadMatching(opcode int32, timeout time.Duration, match func(Frame) bool) (Frame, error) {
	deadline := time.Now().Add(timeout)
	for {
		f, err := c.ReadUntil(opcode, time.Until(deadline))
		if err != nil {
			return Frame{}, err
		}
		if match(f) {
			return f, nil
		}
	}
}

// Close закрывает соединение.
func (c *PlayClient) Close() error {
	return c.conn.Close()
}
