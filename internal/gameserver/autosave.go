package gameserver

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/tick"
)

// Autosaver periodically saves dirty player data containers.
// Collection runs on the logic loop, storage I/O on a background goroutine.
type Autosaver struct {
	srv     *Server
	running atomic.Bool
	wg      sync.WaitGroup
	ctx     context.Context
}

// NewAutosaver creates an autosaver. ctx bounds background saves.
func NewAutosaver(ctx context.Context, srv *Server) *Autosaver {
	return &Autosaver{srv: srv, ctx: ctx}
}

// Hook returns the tick hook that triggers a save every interval.
func (a *Autosaver) Hook(interval time.Duration) tick.Hook {
	return tick.Every(interval, func(time.Time) {
		a.Trigger()
	})
}

// Trigger collects dirty players and saves them in the background.
// Skipped if the previous save is still running. Must run on the logic loop.
func (a *Autosaver) Trigger() {
	if a.srv.persister == nil {
		return
	}
	if !a.running.CompareAndSwap(false, true) {
		slog.Debug("autosave still running, skipped")
		return
	}

	var dirty []*model.Player
	a.srv.world.ForEachPlayer(func(p *model.Player) bool {
		if p.PersistentData().IsDirty() {
			dirty = append(dirty, p)
		}
		return true
	})

	if len(dirty) == 0 {
		a.running.Store(false)
		return
	}

	a.wg.Go(func() {
		defer a.running.Store(false)
		a.save(dirty)
	})
}

func (a *Autosaver) save(players []*model.Player) {
	start := time.Now()
	saved := 0
	for _, p := range players {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(a.ctx), saveTimeout)
		err := a.srv.savePlayer(ctx, p)
		cancel()
		if err != nil {
			slog.Error("autosave failed", "player", p.Name(), "error", err)
			continue
		}
		saved++
	}
	slog.Info("autosave completed", "saved", saved, "dirty", len(players), "took", time.Since(start))
}

// Wait blocks until the in-flight save (if any) finishes.
func (a *Autosaver) Wait() {
	a.wg.Wait()
}
