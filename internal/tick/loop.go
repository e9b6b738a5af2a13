// Package tick runs the server logic loop: the single goroutine that owns
// all game-state mutation. Network goroutines hop onto it with Submit.
package tick

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// ErrQueueFull is returned by Do when the task queue is full.
var ErrQueueFull = errors.New("logic loop queue full")

// Hook is called on every tick from the loop goroutine.
type Hook interface {
	Tick(now time.Time)
}

// HookFunc adapts a function to Hook.
type HookFunc func(now time.Time)

// Tick implements Hook.
func (f HookFunc) Tick(now time.Time) { f(now) }

// Every wraps fn so it runs at most once per interval of loop time.
func Every(interval time.Duration, fn func(now time.Time)) Hook {
	var last time.Time
	return HookFunc(func(now time.Time) {
		if last.IsZero() {
			last = now
			return
		}
		if now.Sub(last) < interval {
			return
		}
		last = now
		fn(now)
	})
}

// Loop is the logic loop. Tasks run in submission order, hooks run on every tick.
type Loop struct {
	interval time.Duration
	tasks    chan func()

	hooks     sync.Map // map[string]Hook: name → hook
	hookCount atomic.Int32

	running atomic.Bool
	closed  atomic.Bool
	stopped chan struct{} // closed when Start returns
	ticks   atomic.Uint64
}

// NewLoop creates a logic loop with the given tick interval and task queue size.
func NewLoop(interval time.Duration, queueSize int) *Loop {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Loop{
		interval: interval,
		tasks:    make(chan func(), queueSize),
		stopped:  make(chan struct{}),
	}
}

// Register registers a tick hook under name, replacing a previous one.
func (l *Loop) Register(name string, hook Hook) {
	if _, loaded := l.hooks.Swap(name, hook); !loaded {
		l.hookCount.Add(1)
	}
	slog.Debug("tick hook registered", "name", name)
}

// Unregister removes the hook registered under name.
func (l *Loop) Unregister(name string) {
	if _, ok := l.hooks.LoadAndDelete(name); ok {
		l.hookCount.Add(-1)
		slog.Debug("tick hook unregistered", "name", name)
	}
}

// HookCount returns number of registered hooks.
func (l *Loop) HookCount() int {
	return int(l.hookCount.Load())
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// Submit schedules fn on the loop goroutine. Never blocks.
// Returns false if the loop is stopped or the queue is full; fn is then dropped.
func (l *Loop) Submit(fn func()) bool {
	if l.closed.Load() {
		return false
	}
	select {
	case l.tasks <- fn:
		return true
	default:
		slog.Warn("logic loop queue full, task dropped", "queue", cap(l.tasks))
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
// Once the loop has terminated, fn runs inline on the caller's goroutine:
// nothing else mutates game state at that point.
// Must not be called from the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	if !l.Submit(task) {
		if !l.closed.Load() {
			return ErrQueueFull
		}
		select {
		case <-l.stopped:
			l.run(task)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		select {
		case <-done:
		default:
			// Queued after the final drain: never picked up.
			l.run(task)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stopped is closed when Start has returned.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

// Start runs the loop (blocks until context is canceled).
// Tasks already queued when ctx is canceled still run before Start returns.
func (l *Loop) Start(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return fmt.Errorf("logic loop already running")
	}

	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	slog.Info("logic loop started", "interval", l.interval, "queue", cap(l.tasks))

	for {
		select {
		case <-ctx.Done():
			l.closed.Store(true)
			l.drain()
			slog.Info("logic loop stopped", "ticks", l.ticks.Load())
			return ctx.Err()

		case fn := <-l.tasks:
			l.run(fn)

		case now := <-ticker.C:
			l.tickAll(now)
		}
	}
}

// drain runs tasks queued before the stop.
func (l *Loop) drain() {
	for range len(l.tasks) {
		select {
		case fn := <-l.tasks:
			l.run(fn)
		default:
			return
		}
	}
}

func (l *Loop) tickAll(now time.Time) {
	l.hooks.Range(func(key, value any) bool {
		name := key.(string)
		hook := value.(Hook)
		l.run(func() { hook.Tick(now) }, "hook", name)
		return true
	})
	l.ticks.Add(1)
}

// run executes fn, a panicking task must not take the loop down.
func (l *Loop) run(fn func(), attrs ...any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("logic task panicked",
				append(attrs, "panic", r, "stack", string(debug.Stack()))...)
		}
	}()
	fn()
}
