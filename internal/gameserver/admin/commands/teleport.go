package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/udisondev/sleeper/internal/gameserver/admin"
	"github.com/udisondev/sleeper/internal/model"
)

// Teleport handles /tp <x> <y> <z>, /goto <playerName> and /recall <playerName>.
type Teleport struct {
	clientMgr  ClientManager
	teleporter Teleporter
}

// NewTeleport creates the teleport command handler.
func NewTeleport(clientMgr ClientManager, teleporter Teleporter) *Teleport {
	return &Teleport{clientMgr: clientMgr, teleporter: teleporter}
}

func (c *Teleport) Names() []string {
	return []string{"tp", "teleport", "goto", "recall"}
}

func (c *Teleport) RequiredAccessLevel() admin.AccessLevel { return admin.AccessOperator }

func (c *Teleport) Handle(player *model.Player, args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("usage: /tp <x> <y> <z> | /goto <player> | /recall <player>")
	}

	cmd := strings.ToLower(args[0])
	switch cmd {
	case "tp", "teleport":
		return c.handleTeleportXYZ(player, args[1:])
	case "goto":
		return c.handleGoto(player, args[1])
	case "recall":
		return c.handleRecall(player, args[1])
	default:
		return "", fmt.Errorf("unknown teleport subcommand: %s", cmd)
	}
}

func (c *Teleport) handleTeleportXYZ(player *model.Player, args []string) (string, error) {
	if len(args) < 3 {
		return "", fmt.Errorf("usage: /tp <x> <y> <z>")
	}

	var coords [3]float64
	for i, name := range [...]string{"x", "y", "z"} {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return "", fmt.Errorf("invalid %s coordinate %q: %w", name, args[i], err)
		}
		coords[i] = v
	}

	cur := player.Location()
	target := model.NewLocation(coords[0], coords[1], coords[2]).WithRotation(cur.Yaw, cur.Pitch)
	if !target.IsFinite() {
		return "", fmt.Errorf("coordinates must be finite")
	}
	c.teleporter.Teleport(player, target)
	return fmt.Sprintf("Teleported to (%.1f, %.1f, %.1f)", target.X, target.Y, target.Z), nil
}

func (c *Teleport) handleGoto(player *model.Player, targetName string) (string, error) {
	target := c.clientMgr.FindPlayerByName(targetName)
	if target == nil {
		return "", fmt.Errorf("player %q not found", targetName)
	}

	loc := target.Location()
	c.teleporter.Teleport(player, loc)
	return fmt.Sprintf("Teleported to player %s at (%.1f, %.1f, %.1f)",
		target.Name(), loc.X, loc.Y, loc.Z), nil
}

func (c *Teleport) handleRecall(player *model.Player, targetName string) (string, error) {
	target := c.clientMgr.FindPlayerByName(targetName)
	if target == nil {
		return "", fmt.Errorf("player %q not found", targetName)
	}

	c.teleporter.Teleport(target, player.Location())
	return fmt.Sprintf("Recalled player %s to your location", target.Name()), nil
}
