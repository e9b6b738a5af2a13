package commands

import (
	"fmt"
	"strings"

	"github.com/udisondev/sleeper/internal/gameserver/admin"
	"github.com/udisondev/sleeper/internal/model"
)

// Kick handles /kick <playerName> [reason]: disconnects a player.
type Kick struct {
	clientMgr ClientManager
}

// NewKick creates the kick command handler.
func NewKick(clientMgr ClientManager) *Kick {
	return &Kick{clientMgr: clientMgr}
}

func (c *Kick) Names() []string                        { return []string{"kick"} }
func (c *Kick) RequiredAccessLevel() admin.AccessLevel { return admin.AccessOperator }

func (c *Kick) Handle(_ *model.Player, args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("usage: /kick <playerName> [reason]")
	}

	targetName := args[1]
	reason := "Kicked by an operator"
	if len(args) > 2 {
		reason = strings.Join(args[2:], " ")
	}
	if !c.clientMgr.KickPlayer(targetName, reason) {
		return "", fmt.Errorf("player %q not found or already disconnected", targetName)
	}
	return fmt.Sprintf("Kicked player %s", targetName), nil
}
