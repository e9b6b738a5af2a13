package commands

import "github.com/udisondev/sleeper/internal/gameserver/admin"

// RegisterAll registers all commands into the handler.
func RegisterAll(h *admin.Handler, clientMgr ClientManager, teleporter Teleporter, auth SleepAuthority) {
	// Operator commands
	h.Register(NewSleep(clientMgr, auth))
	h.Register(NewForceSleep(clientMgr, auth))
	h.Register(NewWake(clientMgr, auth))
	h.Register(NewTeleport(clientMgr, teleporter))
	h.Register(NewAnnounce(clientMgr))
	h.Register(NewKick(clientMgr))

	// Everyone
	h.Register(NewBed(auth))
	h.Register(NewSleepStatus(clientMgr, auth))
	h.Register(&Loc{})
	h.Register(NewOnline(clientMgr))
	h.Register(NewHelp(h))
}
