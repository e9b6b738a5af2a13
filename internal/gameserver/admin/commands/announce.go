package commands

import (
	"fmt"
	"strings"

	"github.com/udisondev/sleeper/internal/gameserver/admin"
	"github.com/udisondev/sleeper/internal/model"
)

// Announce handles /announce <text>: broadcasts a message to all players.
type Announce struct {
	clientMgr ClientManager
}

// NewAnnounce creates the announce command handler.
func NewAnnounce(clientMgr ClientManager) *Announce {
	return &Announce{clientMgr: clientMgr}
}

func (c *Announce) Names() []string                        { return []string{"announce", "say"} }
func (c *Announce) RequiredAccessLevel() admin.AccessLevel { return admin.AccessOperator }

func (c *Announce) Handle(_ *model.Player, args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("usage: /announce <text>")
	}
	n := c.clientMgr.Announce("[Server] " + strings.Join(args[1:], " "))
	return fmt.Sprintf("Announced to %d players", n), nil
}
