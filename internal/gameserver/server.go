package gameserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/udisondev/sleeper/internal/config"
	"github.com/udisondev/sleeper/internal/constants"
	"github.com/udisondev/sleeper/internal/gameserver/clientpackets"
	"github.com/udisondev/sleeper/internal/gameserver/serverpackets"
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/protocol"
	"github.com/udisondev/sleeper/internal/tick"
	"github.com/udisondev/sleeper/internal/world"
)

// PlayerDataStore loads and saves the persistent data container of a player.
type PlayerDataStore interface {
	LoadPlayer(ctx context.Context, player *model.Player) error
	SavePlayer(ctx context.Context, player *model.Player) error
}

// supportedProtocols lists the client protocol numbers the server speaks.
var supportedProtocols = map[int32]string{
	constants.ProtocolVersion1_14_4: "1.14.4",
	constants.ProtocolVersion1_15_2: "1.15.2",
}

// Server accepts client connections and bridges them to the logic loop.
type Server struct {
	cfg       config.Server
	codec     *protocol.Codec
	framePool *BytePool

	world         *world.World
	loop          *tick.Loop
	persister     PlayerDataStore
	saveLocks     [16]sync.Mutex
	clientManager *ClientManager
	interceptors  *Interceptors
	handler       *Handler

	listener net.Listener
	mu       sync.Mutex
	cancel   context.CancelCauseFunc

	fatalOnce sync.Once
	fatalErr  error
}

// NewServer creates a new Server. persister may be nil (nothing is loaded or saved).
func NewServer(cfg config.Server, w *world.World, loop *tick.Loop, persister PlayerDataStore) (*Server, error) {
	if w == nil || loop == nil {
		return nil, fmt.Errorf("world and logic loop are required")
	}

	clientMgr := NewClientManager()
	s := &Server{
		cfg:           cfg,
		codec:         protocol.NewCodec(cfg.Network.CompressionThreshold),
		framePool:     NewBytePool(512),
		world:         w,
		loop:          loop,
		persister:     persister,
		clientManager: clientMgr,
		interceptors:  NewInterceptors(),
		handler:       NewHandler(w, clientMgr),
	}
	return s, nil
}

// Addr returns the address the server is listening on.
// Returns nil if the server hasn't started yet.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ClientManager returns the client manager for this server.
// Used for broadcast operations and client tracking.
func (s *Server) ClientManager() *ClientManager {
	return s.clientManager
}

// Interceptors returns the packet interceptor chains.
func (s *Server) Interceptors() *Interceptors {
	return s.interceptors
}

// Handler returns the in-game packet handler.
func (s *Server) Handler() *Handler {
	return s.handler
}

// World returns the player registry.
func (s *Server) World() *world.World {
	return s.world
}

// Loop returns the logic loop.
func (s *Server) Loop() *tick.Loop {
	return s.loop
}

// Fatal stops the server: Run/Serve return err. Only the first call counts.
// Safe to call from any goroutine.
func (s *Server) Fatal(err error) {
	s.fatalOnce.Do(func() {
		slog.Error("fatal server error, shutting down", "error", err)
		s.mu.Lock()
		s.fatalErr = err
		cancel := s.cancel
		s.mu.Unlock()
		if cancel != nil {
			cancel(err)
		}
	})
}

func (s *Server) fatalError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fatalErr
}

// Run begins listening for client connections.
// Creates a listener on cfg.BindAddress:cfg.Port and starts the accept loop.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.BindAddress, fmt.Sprint(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from the given listener until ctx is canceled or Fatal is called.
// Blocks until every connection has been cleaned up.
// Returns the error passed to Fatal, nil on a regular shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	s.mu.Lock()
	s.listener = ln
	s.cancel = cancel
	s.mu.Unlock()

	if err := s.fatalError(); err != nil {
		ln.Close()
		return err
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("server started", "address", ln.Addr(), "compression", s.codec.Threshold())

	var wg sync.WaitGroup
	acceptLoop(ctx, &wg, s, ln)
	wg.Wait()

	slog.Info("server stopped")
	return s.fatalError()
}

func acceptLoop(
	ctx context.Context,
	wg *sync.WaitGroup,
	srv *Server,
	ln net.Listener,
) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Error("failed to accept new connection", "error", err)
			continue
		}

		// Enable TCP keepalive (detect dead connections)
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			if err := tcpConn.SetKeepAlive(true); err != nil {
				slog.Warn("set keepalive failed", "error", err)
			}
			if err := tcpConn.SetKeepAlivePeriod(30 * time.Second); err != nil {
				slog.Warn("set keepalive period failed", "error", err)
			}
		}

		wg.Go(func() {
			handleConnection(ctx, srv, conn)
		})
	}
}

func handleConnection(ctx context.Context, srv *Server, conn net.Conn) {
	defer conn.Close()

	client, err := NewGameClient(conn, ClientOptions{
		Codec:         srv.codec,
		Interceptors:  srv.interceptors,
		FramePool:     srv.framePool,
		SendQueueSize: srv.cfg.Network.SendQueueSize,
		WriteTimeout:  srv.cfg.Network.WriteTimeout,
		OnFatal:       srv.Fatal,
	})
	if err != nil {
		slog.Error("failed to create game client", "error", err)
		return
	}

	slog.Info("new client connection", "remote", client.Addr())

	srv.clientManager.Register(client)
	client.Start()

	defer func() {
		OnDisconnection(ctx, srv, client)
		srv.clientManager.Unregister(client)
		client.Flush(srv.writeTimeout())
		client.Close()
	}()

	go func() {
		select {
		case <-ctx.Done():
			if client.State() == ClientStateInGame {
				client.Disconnect("Server closed")
			} else {
				client.CloseAsync()
			}
			select {
			case <-client.Done():
			case <-time.After(srv.writeTimeout()):
			}
			conn.Close()
		case <-client.Done():
		}
	}()

	// Resolve read timeout from config
	readTimeout := srv.cfg.Network.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}

	r := bufio.NewReaderSize(conn, constants.ReadBufferSize)

	if err := srv.login(ctx, client, r, readTimeout); err != nil {
		slog.Warn("login failed", "client", client.Addr(), "error", err)
		return
	}

	// Enter packet handling loop (read → decode → intercept → logic loop)
	for {
		if err := srv.readPacket(client, r, readTimeout); err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), ctx.Err() != nil:
				slog.Info("client disconnected", "client", client.Addr())
			default:
				slog.Warn("packet handling error", "client", client.Addr(), "error", err)
			}
			return
		}
	}
}

// savePlayer snapshots and writes one player's data. Saves of the same player
// never overlap, so an older snapshot cannot land after a newer one.
func (s *Server) savePlayer(ctx context.Context, player *model.Player) error {
	mu := &s.saveLocks[uint32(player.EntityID())%uint32(len(s.saveLocks))]
	mu.Lock()
	defer mu.Unlock()
	return s.persister.SavePlayer(ctx, player)
}

func (s *Server) writeTimeout() time.Duration {
	if s.cfg.Network.WriteTimeout > 0 {
		return s.cfg.Network.WriteTimeout
	}
	return defaultWriteTimeout
}

// login reads the Login packet, loads the player's data on this goroutine and
// enters the world on the logic loop.
func (s *Server) login(ctx context.Context, client *GameClient, r *bufio.Reader, readTimeout time.Duration) error {
	if err := client.Conn().SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return fmt.Errorf("setting read deadline: %w", err)
	}

	frame, err := client.Codec().ReadFrame(r)
	if err != nil {
		return fmt.Errorf("reading login: %w", err)
	}
	raw, err := clientpackets.Decode(frame)
	if err != nil {
		return fmt.Errorf("decoding login: %w", err)
	}
	if raw.Opcode != clientpackets.OpcodeLogin {
		return fmt.Errorf("expected login packet, got opcode 0x%02X", raw.Opcode)
	}

	pkt, err := clientpackets.ParseLogin(raw.Payload)
	if err != nil {
		return fmt.Errorf("parsing login: %w", err)
	}

	if _, ok := supportedProtocols[pkt.ProtocolVersion]; !ok {
		client.Disconnect(fmt.Sprintf("Unsupported protocol version %d", pkt.ProtocolVersion))
		return fmt.Errorf("unsupported protocol version %d", pkt.ProtocolVersion)
	}

	if _, online := s.world.PlayerByName(pkt.Name); online {
		client.Disconnect("You are already logged in")
		return fmt.Errorf("player %q already online", pkt.Name)
	}

	player, err := s.world.NewPlayer(pkt.Name)
	if err != nil {
		client.Disconnect("Invalid player name")
		return err
	}

	client.SetState(ClientStateEntering)

	// Storage I/O stays off the logic loop.
	if s.persister != nil {
		if err := s.persister.LoadPlayer(ctx, player); err != nil {
			client.Disconnect("Failed to load player data")
			return fmt.Errorf("loading player %s: %w", player.Name(), err)
		}
	}

	var enterErr error
	if err := s.loop.Do(ctx, func() {
		enterErr = s.handler.EnterWorld(client, player)
	}); err != nil {
		return fmt.Errorf("scheduling enter world: %w", err)
	}
	if enterErr != nil {
		client.Disconnect("Failed to join")
		return enterErr
	}

	slog.Info("player logged in",
		"name", player.Name(),
		"uuid", player.UUID(),
		"protocol", pkt.ProtocolVersion,
		"client", client.Addr())
	return nil
}

// readPacket reads one frame, runs the inbound interceptors on this goroutine
// and hands the packet to the logic loop.
func (s *Server) readPacket(client *GameClient, r *bufio.Reader, readTimeout time.Duration) error {
	// Read timeout: idle client disconnects
	if err := client.Conn().SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return fmt.Errorf("setting read deadline: %w", err)
	}

	frame, err := client.Codec().ReadFrame(r)
	if err != nil {
		return fmt.Errorf("reading packet: %w", err)
	}

	pkt, err := clientpackets.Decode(frame)
	if err != nil {
		return fmt.Errorf("decoding packet: %w", err)
	}

	ev := InboundEvent{Client: client, Packet: pkt}
	if err := s.interceptors.RunInbound(&ev); err != nil {
		slog.Warn("inbound interceptor failed", "client", client.Addr(), "error", err)
	}
	if ev.Cancelled() {
		return nil
	}

	if !s.loop.Submit(func() { s.handler.HandlePacket(client, pkt) }) {
		slog.Warn("logic loop rejected packet",
			"client", client.Addr(),
			"opcode", fmt.Sprintf("0x%02X", pkt.Opcode))
	}
	return nil
}

// KeepAliveHook pings every in-game client; registered on the logic loop.
func (s *Server) KeepAliveHook() tick.Hook {
	interval := s.cfg.Network.KeepAliveInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return tick.Every(interval, func(now time.Time) {
		id := now.UnixMilli()
		s.clientManager.ForEachPlayer(func(_ *model.Player, client *GameClient) bool {
			client.StartKeepAlive(id)
			_ = client.Send(&serverpackets.KeepAlive{ID: id})
			return true
		})
	})
}
