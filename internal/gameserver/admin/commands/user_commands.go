package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/udisondev/sleeper/internal/gameserver/admin"
	"github.com/udisondev/sleeper/internal/model"
)

// Loc handles /loc: shows current coordinates.
type Loc struct{}

func (c *Loc) Names() []string                        { return []string{"loc", "location"} }
func (c *Loc) RequiredAccessLevel() admin.AccessLevel { return admin.AccessUser }

func (c *Loc) Handle(player *model.Player, _ []string) (string, error) {
	loc := player.Location()
	b := loc.Block()
	return fmt.Sprintf("Location: X=%.2f Y=%.2f Z=%.2f (block %d %d %d) Yaw=%.1f",
		loc.X, loc.Y, loc.Z, b.X, b.Y, b.Z, loc.Yaw), nil
}

// Online handles /online: shows online players.
type Online struct {
	clientMgr ClientManager
}

// NewOnline creates the online command handler.
func NewOnline(clientMgr ClientManager) *Online {
	return &Online{clientMgr: clientMgr}
}

func (c *Online) Names() []string                        { return []string{"online", "list"} }
func (c *Online) RequiredAccessLevel() admin.AccessLevel { return admin.AccessUser }

func (c *Online) Handle(_ *model.Player, _ []string) (string, error) {
	names := make([]string, 0, c.clientMgr.PlayerCount())
	c.clientMgr.ForEachPlayer(func(p *model.Player) bool {
		names = append(names, p.Name())
		return true
	})
	slices.Sort(names)
	return fmt.Sprintf("Online: %d players: %s", len(names), strings.Join(names, ", ")), nil
}

// Help handles /help: lists the commands.
type Help struct {
	handler *admin.Handler
}

// NewHelp creates the help command handler.
func NewHelp(handler *admin.Handler) *Help {
	return &Help{handler: handler}
}

func (c *Help) Names() []string                        { return []string{"help"} }
func (c *Help) RequiredAccessLevel() admin.AccessLevel { return admin.AccessUser }

func (c *Help) Handle(_ *model.Player, _ []string) (string, error) {
	return "Commands: /" + strings.Join(c.handler.Names(), ", /"), nil
}
