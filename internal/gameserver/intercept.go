package gameserver

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/udisondev/sleeper/internal/gameserver/clientpackets"
	"github.com/udisondev/sleeper/internal/gameserver/serverpackets"
)

// ErrFatal marks interceptor errors that must stop the whole server.
// Interceptors wrap it: fmt.Errorf("%w: %w", gameserver.ErrFatal, err).
var ErrFatal = errors.New("fatal interceptor error")

// Priority orders interceptors. Lower priorities run first, so higher ones
// see (and may override) what lower ones produced. Monitor runs last and
// must not modify the event.
type Priority int

const (
	PriorityLowest Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityHighest
	PriorityMonitor
)

func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "LOWEST"
	case PriorityLow:
		return "LOW"
	case PriorityNormal:
		return "NORMAL"
	case PriorityHigh:
		return "HIGH"
	case PriorityHighest:
		return "HIGHEST"
	case PriorityMonitor:
		return "MONITOR"
	default:
		return fmt.Sprintf("PRIORITY(%d)", int(p))
	}
}

// OutboundEvent is a server packet about to be written to one client.
// Runs on that client's write goroutine.
type OutboundEvent struct {
	Client *GameClient
	Packet serverpackets.Packet

	cancelled bool
}

// Cancel drops the packet for this client.
func (e *OutboundEvent) Cancel() { e.cancelled = true }

// Cancelled reports whether an interceptor cancelled the packet.
func (e *OutboundEvent) Cancelled() bool { return e.cancelled }

// InboundEvent is a decoded client packet before it reaches the logic loop.
// Runs on the client's read goroutine.
type InboundEvent struct {
	Client *GameClient
	Packet *clientpackets.Packet

	cancelled bool
}

// Cancel stops the packet from being handled.
func (e *InboundEvent) Cancel() { e.cancelled = true }

// Cancelled reports whether an interceptor cancelled the packet.
func (e *InboundEvent) Cancelled() bool { return e.cancelled }

// OutboundInterceptor inspects or rewrites packets sent to clients.
type OutboundInterceptor interface {
	OnSend(ev *OutboundEvent) error
}

// InboundInterceptor inspects packets received from clients.
type InboundInterceptor interface {
	OnReceive(ev *InboundEvent) error
}

// OutboundFunc adapts a function to OutboundInterceptor.
type OutboundFunc func(ev *OutboundEvent) error

// OnSend implements OutboundInterceptor.
func (f OutboundFunc) OnSend(ev *OutboundEvent) error { return f(ev) }

// InboundFunc adapts a function to InboundInterceptor.
type InboundFunc func(ev *InboundEvent) error

// OnReceive implements InboundInterceptor.
func (f InboundFunc) OnReceive(ev *InboundEvent) error { return f(ev) }

type registration[T any] struct {
	name     string
	priority Priority
	seq      int
	handler  T
}

// chain is a copy-on-write list of interceptors sorted by priority, then registration order.
// Reads are lock-free: the hot path runs on every packet of every client.
type chain[T any] struct {
	mu   sync.Mutex
	seq  int
	list atomic.Pointer[[]registration[T]]
}

func (c *chain[T]) add(name string, priority Priority, h T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next []registration[T]
	if cur := c.list.Load(); cur != nil {
		next = slices.Clone(*cur)
	}
	c.seq++
	next = append(next, registration[T]{name: name, priority: priority, seq: c.seq, handler: h})
	slices.SortStableFunc(next, func(a, b registration[T]) int {
		if a.priority != b.priority {
			return int(a.priority) - int(b.priority)
		}
		return a.seq - b.seq
	})
	c.list.Store(&next)
}

func (c *chain[T]) snapshot() []registration[T] {
	if cur := c.list.Load(); cur != nil {
		return *cur
	}
	return nil
}

// Interceptors holds the outbound and inbound interceptor chains of a server.
type Interceptors struct {
	outbound chain[OutboundInterceptor]
	inbound  chain[InboundInterceptor]
}

// NewInterceptors creates empty interceptor chains.
func NewInterceptors() *Interceptors {
	return &Interceptors{}
}

// AddOutbound registers an outbound interceptor.
func (i *Interceptors) AddOutbound(name string, priority Priority, h OutboundInterceptor) {
	i.outbound.add(name, priority, h)
	slog.Debug("outbound interceptor registered", "name", name, "priority", priority)
}

// AddInbound registers an inbound interceptor.
func (i *Interceptors) AddInbound(name string, priority Priority, h InboundInterceptor) {
	i.inbound.add(name, priority, h)
	slog.Debug("inbound interceptor registered", "name", name, "priority", priority)
}

// RunOutbound passes ev through the outbound chain.
// Once cancelled, only Monitor interceptors still see the event.
// Stops at the first error.
func (i *Interceptors) RunOutbound(ev *OutboundEvent) error {
	for _, r := range i.outbound.snapshot() {
		if ev.cancelled && r.priority != PriorityMonitor {
			continue
		}
		if err := r.handler.OnSend(ev); err != nil {
			return fmt.Errorf("outbound interceptor %s: %w", r.name, err)
		}
	}
	return nil
}

// RunInbound passes ev through the inbound chain.
// Once cancelled, only Monitor interceptors still see the event.
// Stops at the first error.
func (i *Interceptors) RunInbound(ev *InboundEvent) error {
	for _, r := range i.inbound.snapshot() {
		if ev.cancelled && r.priority != PriorityMonitor {
			continue
		}
		if err := r.handler.OnReceive(ev); err != nil {
			return fmt.Errorf("inbound interceptor %s: %w", r.name, err)
		}
	}
	return nil
}
