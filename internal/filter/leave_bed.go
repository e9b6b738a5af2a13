package filter

import (
	"log/slog"

	"github.com/udisondev/sleeper/internal/gameserver"
	"github.com/udisondev/sleeper/internal/gameserver/clientpackets"
	"github.com/udisondev/sleeper/internal/model"
)

// Scheduler runs functions on the logic loop.
type Scheduler interface {
	Submit(fn func()) bool
}

// Waker wakes players up. Called on the logic loop only.
type Waker interface {
	AttemptWakeUp(player *model.Player) bool
}

// LeaveBed turns the client's leave-bed action into a wake-up attempt.
// OnReceive runs on the client read goroutine and only schedules work.
type LeaveBed struct {
	loop  Scheduler
	waker Waker
}

// NewLeaveBed creates the leave-bed filter.
func NewLeaveBed(loop Scheduler, waker Waker) *LeaveBed {
	return &LeaveBed{loop: loop, waker: waker}
}

// OnReceive implements gameserver.InboundInterceptor.
func (f *LeaveBed) OnReceive(ev *gameserver.InboundEvent) error {
	action, ok := ev.Packet.Decoded.(*clientpackets.EntityAction)
	if !ok || action.Action != clientpackets.ActionLeaveBed {
		return nil
	}
	player := ev.Client.ActivePlayer()
	if player == nil {
		return nil
	}

	// Forced sleep makes AttemptWakeUp refuse; that is expected and not reported.
	if !f.loop.Submit(func() { f.waker.AttemptWakeUp(player) }) {
		slog.Warn("logic queue full, leave bed dropped", "player", player)
	}
	return nil
}

// Register adds the filter to the inbound chain.
func (f *LeaveBed) Register(ic *gameserver.Interceptors) {
	ic.AddInbound("sleep-leave-bed", gameserver.PriorityHighest, f)
}
