package gameserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/sleeper/internal/constants"
	"github.com/udisondev/sleeper/internal/gameserver/serverpackets"
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/protocol"
)

// Default write queue / timeout constants.
// Overridden by config values when available.
const (
	defaultSendQueueSize = constants.DefaultSendQueueSize
	defaultWriteTimeout  = 5 * time.Second
	defaultReadTimeout   = 30 * time.Second
)

var (
	// ErrSendQueueFull is returned by Send when the client's outbox is full.
	// The client is disconnected as too slow.
	ErrSendQueueFull = errors.New("send queue full")

	// ErrClientClosed is returned by Send after the client was closed.
	ErrClientClosed = errors.New("client closed")
)

// ClientOptions configures a GameClient.
type ClientOptions struct {
	Codec         *protocol.Codec
	Interceptors  *Interceptors
	FramePool     *BytePool
	SendQueueSize int
	WriteTimeout  time.Duration

	// OnFatal is called from the write goroutine when an outbound interceptor
	// fails with ErrFatal.
	OnFatal func(error)
}

// GameClient represents a single client connection.
type GameClient struct {
	conn net.Conn
	addr string

	codec        *protocol.Codec
	interceptors *Interceptors
	framePool    *BytePool
	onFatal      func(error)

	// state использует atomic.Int32 для lock-free reads в hot path
	state atomic.Int32

	// markedForDisconnection: close the connection after the current batch is written
	markedForDisconnection atomic.Bool
	// disconnectQueued: a Disconnect packet sits in sendCh
	disconnectQueued atomic.Bool

	// mu защищает только activePlayer
	mu           sync.Mutex
	activePlayer *model.Player

	keepAliveID atomic.Int64
	teleportID  atomic.Int32

	// Per-client write queue: structured packets, encoded by writePump after interceptors ran.
	sendCh    chan serverpackets.Packet
	closeCh   chan struct{}
	closeOnce sync.Once
	pumpDone  chan struct{}

	writeTimeout time.Duration
}

// NewGameClient creates a new client state for the given connection.
// The write goroutine is not started; call Start.
func NewGameClient(conn net.Conn, opts ClientOptions) (*GameClient, error) {
	if conn == nil {
		return nil, fmt.Errorf("nil connection")
	}
	if opts.Codec == nil {
		opts.Codec = protocol.NewCodec(-1)
	}
	if opts.Interceptors == nil {
		opts.Interceptors = NewInterceptors()
	}
	if opts.FramePool == nil {
		opts.FramePool = NewBytePool(512)
	}
	if opts.SendQueueSize <= 0 {
		opts.SendQueueSize = defaultSendQueueSize
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.OnFatal == nil {
		opts.OnFatal = func(err error) {
			slog.Error("fatal outbound error", "error", err)
		}
	}

	client := &GameClient{
		conn:         conn,
		addr:         conn.RemoteAddr().String(),
		codec:        opts.Codec,
		interceptors: opts.Interceptors,
		framePool:    opts.FramePool,
		onFatal:      opts.OnFatal,
		sendCh:       make(chan serverpackets.Packet, opts.SendQueueSize),
		closeCh:      make(chan struct{}),
		pumpDone:     make(chan struct{}),
		writeTimeout: opts.WriteTimeout,
	}
	client.state.Store(int32(ClientStateConnected))
	return client, nil
}

// Start launches the write goroutine.
func (c *GameClient) Start() {
	go c.writePump()
}

// Conn returns the underlying network connection.
func (c *GameClient) Conn() net.Conn {
	return c.conn
}

// Addr returns the client's remote address.
func (c *GameClient) Addr() string {
	return c.addr
}

// Codec returns the frame codec of this connection.
func (c *GameClient) Codec() *protocol.Codec {
	return c.codec
}

// State returns the current connection state.
// Использует atomic для lock-free reads (hot path).
func (c *GameClient) State() ClientConnectionState {
	return ClientConnectionState(c.state.Load())
}

// SetState sets the connection state.
func (c *GameClient) SetState(s ClientConnectionState) {
	c.state.Store(int32(s))
}

// ActivePlayer returns the active player (nil if not in game).
func (c *GameClient) ActivePlayer() *model.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activePlayer
}

// SetActivePlayer sets the active player (called on enter world).
func (c *GameClient) SetActivePlayer(player *model.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activePlayer = player
}

// StartKeepAlive records the id of a keep-alive ping about to be sent.
func (c *GameClient) StartKeepAlive(id int64) {
	c.keepAliveID.Store(id)
}

// AckKeepAlive checks the echoed id against the last ping.
func (c *GameClient) AckKeepAlive(id int64) bool {
	return c.keepAliveID.CompareAndSwap(id, 0)
}

// NextTeleportID returns the id for the next PlayerPositionLook sent to this client.
func (c *GameClient) NextTeleportID() int32 {
	return c.teleportID.Add(1)
}

// writePump is a dedicated writer goroutine for this client.
// Reads packets from sendCh, runs outbound interceptors, frames and writes them to conn.
// Uses net.Buffers (writev syscall) for batching and pool.Put for buffer return.
//
// Pattern: Gorilla WebSocket Chat + net.Buffers + drain batching.
func (c *GameClient) writePump() {
	defer close(c.pumpDone)

	// Pre-allocate scratch slices (one-time, reused across iterations)
	bufs := make(net.Buffers, 0, constants.MaxBatchFrames)
	poolBufs := make([][]byte, 0, constants.MaxBatchFrames)

	defer func() {
		// Unblock the reader and drop whatever is still queued.
		c.CloseAsync()
		c.conn.Close()
		for {
			select {
			case <-c.sendCh:
			default:
				return
			}
		}
	}()

	for {
		select {
		case pkt := <-c.sendCh:
			poolBufs = poolBufs[:0]

			frame, err := c.encode(pkt)
			if err != nil {
				return
			}
			if frame != nil {
				poolBufs = append(poolBufs, frame)
			}

			// Batching: drain queued packets (Gorilla Chat pattern)
			for queued := len(c.sendCh); queued > 0 && len(poolBufs) < constants.MaxBatchFrames; queued-- {
				frame, err := c.encode(<-c.sendCh)
				if err != nil {
					c.releaseFrames(poolBufs)
					return
				}
				if frame != nil {
					poolBufs = append(poolBufs, frame)
				}
			}

			if len(poolBufs) == 0 {
				continue
			}

			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				slog.Warn("set write deadline failed", "client", c.addr, "error", err)
				c.releaseFrames(poolBufs)
				return
			}

			// net.Buffers.WriteTo consumes bufs, poolBufs keeps the originals for the pool
			bufs = append(bufs[:0], poolBufs...)
			_, err = bufs.WriteTo(c.conn)
			c.releaseFrames(poolBufs)

			if err != nil {
				slog.Warn("write failed", "client", c.addr, "error", err)
				return
			}

			if c.markedForDisconnection.Load() {
				return
			}

		case <-c.closeCh:
			return
		}
	}
}

// encode runs the outbound interceptors and frames the resulting packet.
// Returns nil frame if the packet was dropped, error if the pump must stop.
func (c *GameClient) encode(pkt serverpackets.Packet) ([]byte, error) {
	ev := OutboundEvent{Client: c, Packet: pkt}
	if err := c.interceptors.RunOutbound(&ev); err != nil {
		if errors.Is(err, ErrFatal) {
			c.onFatal(err)
			return nil, err
		}
		slog.Warn("outbound interceptor failed, packet dropped", "client", c.addr, "error", err)
		return nil, nil
	}
	if ev.Cancelled() || ev.Packet == nil {
		return nil, nil
	}
	if _, ok := pkt.(*serverpackets.Disconnect); ok {
		c.markedForDisconnection.Store(true)
	}

	payload, err := ev.Packet.Write()
	if err != nil {
		slog.Warn("serializing packet failed, packet dropped",
			"client", c.addr,
			"packet", fmt.Sprintf("%T", ev.Packet),
			"error", err)
		return nil, nil
	}

	frame, err := c.codec.AppendFrame(c.framePool.Get(len(payload) + 8)[:0], payload)
	if err != nil {
		slog.Warn("framing packet failed, packet dropped", "client", c.addr, "error", err)
		return nil, nil
	}
	return frame, nil
}

func (c *GameClient) releaseFrames(frames [][]byte) {
	for _, b := range frames {
		c.framePool.Put(b)
	}
}

// Send queues a packet for async delivery.
// Non-blocking: returns ErrSendQueueFull if queue is full (slow client → disconnect).
func (c *GameClient) Send(pkt serverpackets.Packet) error {
	select {
	case <-c.closeCh:
		return ErrClientClosed
	default:
	}

	select {
	case c.sendCh <- pkt:
		return nil
	default:
		slog.Warn("send queue full, disconnecting slow client", "client", c.addr)
		c.CloseAsync()
		return ErrSendQueueFull
	}
}

// Disconnect sends a Disconnect packet and closes the connection after it is written.
func (c *GameClient) Disconnect(reason string) {
	if err := c.Send(serverpackets.NewDisconnect(reason)); err != nil {
		c.CloseAsync()
		return
	}
	c.disconnectQueued.Store(true)
}

// Flush waits up to timeout for the write goroutine to deliver a queued
// Disconnect and exit. Returns false if nothing was queued or time ran out.
func (c *GameClient) Flush(timeout time.Duration) bool {
	if !c.disconnectQueued.Load() {
		return false
	}
	select {
	case <-c.pumpDone:
		return true
	case <-time.After(timeout):
		return false
	}
}

// CloseAsync signals the writePump to stop without blocking.
// Safe to call multiple times.
func (c *GameClient) CloseAsync() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(ClientStateDisconnected))
		close(c.closeCh)
	})
}

// Close closes the connection and stops the writePump.
func (c *GameClient) Close() error {
	c.CloseAsync()
	return c.conn.Close()
}

// Done is closed when the write goroutine has exited.
func (c *GameClient) Done() <-chan struct{} {
	return c.pumpDone
}

// IsMarkedForDisconnection returns true if client will be closed after the pending writes.
func (c *GameClient) IsMarkedForDisconnection() bool {
	return c.markedForDisconnection.Load()
}
