// Package admin dispatches chat commands to registered command handlers.
package admin

import (
	"strings"

	"github.com/udisondev/sleeper/internal/model"
)

// AccessLevel defines what a player may run.
type AccessLevel int32

const (
	// AccessUser is every player.
	AccessUser AccessLevel = 0
	// AccessOperator may run admin commands.
	AccessOperator AccessLevel = 1
)

func (l AccessLevel) String() string {
	switch l {
	case AccessUser:
		return "user"
	case AccessOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// AccessResolver decides the access level of a player.
type AccessResolver interface {
	AccessLevel(player *model.Player) AccessLevel
}

// OperatorList grants AccessOperator to the listed player names (case-insensitive).
type OperatorList struct {
	names map[string]struct{}
}

// NewOperatorList creates an operator list.
func NewOperatorList(names []string) *OperatorList {
	ops := &OperatorList{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		ops.names[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	return ops
}

// AccessLevel implements AccessResolver.
func (o *OperatorList) AccessLevel(player *model.Player) AccessLevel {
	if _, ok := o.names[strings.ToLower(player.Name())]; ok {
		return AccessOperator
	}
	return AccessUser
}
