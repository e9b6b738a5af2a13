package commands

import (
	"fmt"
	"strings"

	"github.com/udisondev/sleeper/internal/gameserver/admin"
	"github.com/udisondev/sleeper/internal/model"
	"github.com/udisondev/sleeper/internal/sleep"
)

// targetOrSelf resolves args[1] to an online player, or the sender without it.
func targetOrSelf(clientMgr ClientManager, player *model.Player, args []string) (*model.Player, error) {
	if len(args) < 2 {
		return player, nil
	}
	target := clientMgr.FindPlayerByName(args[1])
	if target == nil {
		return nil, fmt.Errorf("player %q not found", args[1])
	}
	return target, nil
}

// Sleep handles /sleep [player]: toggles between awake and sleeping.
type Sleep struct {
	clientMgr ClientManager
	auth      SleepAuthority
}

// NewSleep creates the sleep toggle command.
func NewSleep(clientMgr ClientManager, auth SleepAuthority) *Sleep {
	return &Sleep{clientMgr: clientMgr, auth: auth}
}

func (c *Sleep) Names() []string                        { return []string{"sleep"} }
func (c *Sleep) RequiredAccessLevel() admin.AccessLevel { return admin.AccessOperator }

func (c *Sleep) Handle(player *model.Player, args []string) (string, error) {
	target, err := targetOrSelf(c.clientMgr, player, args)
	if err != nil {
		return "", err
	}

	next := sleep.Sleeping
	if c.auth.Status(target) == sleep.Sleeping {
		next = sleep.Awake
	}
	if !c.auth.SetStatus(target, next) {
		return fmt.Sprintf("Status change of %s was cancelled.", target.Name()), nil
	}
	return fmt.Sprintf("%s is now %s.", target.Name(), strings.ToLower(next.String())), nil
}

// ForceSleep handles /forcesleep [player]: puts a player into sleep they cannot leave.
type ForceSleep struct {
	clientMgr ClientManager
	auth      SleepAuthority
}

// NewForceSleep creates the forced sleep command.
func NewForceSleep(clientMgr ClientManager, auth SleepAuthority) *ForceSleep {
	return &ForceSleep{clientMgr: clientMgr, auth: auth}
}

func (c *ForceSleep) Names() []string                        { return []string{"forcesleep"} }
func (c *ForceSleep) RequiredAccessLevel() admin.AccessLevel { return admin.AccessOperator }

func (c *ForceSleep) Handle(player *model.Player, args []string) (string, error) {
	target, err := targetOrSelf(c.clientMgr, player, args)
	if err != nil {
		return "", err
	}
	if !c.auth.SetStatus(target, sleep.ForcedSleep) {
		return fmt.Sprintf("Status change of %s was cancelled.", target.Name()), nil
	}
	return fmt.Sprintf("%s is now in forced sleep.", target.Name()), nil
}

// Wake handles /wake [player]: lifts any sleep, forced included.
type Wake struct {
	clientMgr ClientManager
	auth      SleepAuthority
}

// NewWake creates the wake command.
func NewWake(clientMgr ClientManager, auth SleepAuthority) *Wake {
	return &Wake{clientMgr: clientMgr, auth: auth}
}

func (c *Wake) Names() []string                        { return []string{"wake"} }
func (c *Wake) RequiredAccessLevel() admin.AccessLevel { return admin.AccessOperator }

func (c *Wake) Handle(player *model.Player, args []string) (string, error) {
	target, err := targetOrSelf(c.clientMgr, player, args)
	if err != nil {
		return "", err
	}
	if !c.auth.SetStatus(target, sleep.Awake) {
		return fmt.Sprintf("Status change of %s was cancelled.", target.Name()), nil
	}
	return fmt.Sprintf("%s is now awake.", target.Name()), nil
}

// Bed handles /bed: the sender lies down where they stand.
type Bed struct {
	auth SleepAuthority
}

// NewBed creates the bed command.
func NewBed(auth SleepAuthority) *Bed {
	return &Bed{auth: auth}
}

func (c *Bed) Names() []string                        { return []string{"bed"} }
func (c *Bed) RequiredAccessLevel() admin.AccessLevel { return admin.AccessUser }

func (c *Bed) Handle(player *model.Player, _ []string) (string, error) {
	// The bed is the block under the player, so they stay at the same height.
	bed := player.Location().Add(0, -1, 0)
	if !c.auth.SleepNaturally(player, bed) {
		return "You can't sleep now.", nil
	}
	return "You lie down.", nil
}

// SleepStatus handles /sleepstatus [player].
type SleepStatus struct {
	clientMgr ClientManager
	auth      SleepAuthority
}

// NewSleepStatus creates the status query command.
func NewSleepStatus(clientMgr ClientManager, auth SleepAuthority) *SleepStatus {
	return &SleepStatus{clientMgr: clientMgr, auth: auth}
}

func (c *SleepStatus) Names() []string                        { return []string{"sleepstatus"} }
func (c *SleepStatus) RequiredAccessLevel() admin.AccessLevel { return admin.AccessUser }

func (c *SleepStatus) Handle(player *model.Player, args []string) (string, error) {
	target, err := targetOrSelf(c.clientMgr, player, args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %s", target.Name(), c.auth.Status(target)), nil
}
