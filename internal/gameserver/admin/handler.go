package admin

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/udisondev/sleeper/internal/model"
)

// Command is a chat command (/name args...).
type Command interface {
	// Handle executes the command. args includes the command name at [0].
	// The returned text is shown to the sender.
	Handle(player *model.Player, args []string) (string, error)
	// Names returns all registered command names (without / prefix).
	Names() []string
	// RequiredAccessLevel returns the minimum access level to use this command.
	RequiredAccessLevel() AccessLevel
}

// Handler dispatches chat commands on the logic loop.
// Commands are registered once at startup, then read-only.
type Handler struct {
	mu     sync.RWMutex
	cmds   map[string]Command // name → Command (lowercase)
	access AccessResolver
}

// NewHandler creates a command handler. A nil access resolver treats everyone as a user.
func NewHandler(access AccessResolver) *Handler {
	return &Handler{
		cmds:   make(map[string]Command, 16),
		access: access,
	}
}

// Register registers a command under all its names.
// All command names are lowercased for case-insensitive lookup.
func (h *Handler) Register(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, name := range cmd.Names() {
		h.cmds[strings.ToLower(name)] = cmd
	}
}

// HandleCommand processes a chat command. text is the message WITHOUT the / prefix.
// Returns the reply for the sender and whether a command with that name exists.
func (h *Handler) HandleCommand(player *model.Player, text string) (string, bool) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", false
	}
	cmdName := strings.ToLower(parts[0])

	h.mu.RLock()
	cmd, ok := h.cmds[cmdName]
	h.mu.RUnlock()

	if !ok {
		return "", false
	}

	level := AccessUser
	if h.access != nil {
		level = h.access.AccessLevel(player)
	}
	if level < cmd.RequiredAccessLevel() {
		slog.Warn("command access denied",
			"player", player.Name(),
			"command", cmdName,
			"required", cmd.RequiredAccessLevel(),
			"actual", level)
		return "You do not have permission to use this command.", true
	}

	slog.Info("command", "player", player.Name(), "command", text)

	reply, err := cmd.Handle(player, parts)
	if err != nil {
		slog.Debug("command failed",
			"player", player.Name(),
			"command", text,
			"error", err)
		return fmt.Sprintf("Command error: %s", err), true
	}
	return reply, true
}

// Names returns every registered command name, sorted.
func (h *Handler) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.cmds))
	for n := range h.cmds {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// CommandCount returns number of registered command names.
func (h *Handler) CommandCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.cmds)
}
