// Package capability discovers the version-dependent entity-state layout of the host
// (field indices and enum values) once per process.
package capability

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/udisondev/sleeper/internal/metadata"
	"github.com/udisondev/sleeper/internal/model"
)

// ErrIncompatibleHost is wrapped by every resolution failure.
var ErrIncompatibleHost = errors.New("incompatible host")

// Bundle is the resolved layout of player entity-state fields.
type Bundle struct {
	Version          string
	FlagsIndex       byte
	PoseIndex        byte
	BedPositionIndex byte
	SleepingPose     metadata.Pose
}

// BedPosition builds the bed-position payload: empty when pos is nil.
func (b *Bundle) BedPosition(pos *metadata.BlockPos) metadata.OptPosition {
	if pos == nil {
		return metadata.OptPosition{}
	}
	return metadata.SomePosition(*pos)
}

// Probe inspects the host using a live player entity as sample.
type Probe interface {
	Probe(sample *model.Player) (*Bundle, error)
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(sample *model.Player) (*Bundle, error)

// Probe implements Probe.
func (f ProbeFunc) Probe(sample *model.Player) (*Bundle, error) { return f(sample) }

// Resolver runs its Probe at most once per process, on first use.
// Concurrent first calls share one probe run. The result, success or failure,
// is kept for the lifetime of the Resolver.
type Resolver struct {
	probe   Probe
	group   singleflight.Group
	bundle  atomic.Pointer[Bundle]
	failure atomic.Pointer[error]
}

// NewResolver creates a resolver around probe.
func NewResolver(probe Probe) *Resolver {
	return &Resolver{probe: probe}
}

// Resolve returns the bundle, probing with sample on first call.
// Safe for concurrent use from any goroutine.
func (r *Resolver) Resolve(sample *model.Player) (*Bundle, error) {
	if b := r.bundle.Load(); b != nil {
		return b, nil
	}
	if errp := r.failure.Load(); errp != nil {
		return nil, *errp
	}

	v, err, _ := r.group.Do("bundle", func() (any, error) {
		// Another flight may have finished between the fast path and here.
		if b := r.bundle.Load(); b != nil {
			return b, nil
		}
		if errp := r.failure.Load(); errp != nil {
			return nil, *errp
		}

		b, err := r.probe.Probe(sample)
		if err == nil && b == nil {
			err = errors.New("probe returned no bundle")
		}
		if err != nil {
			if !errors.Is(err, ErrIncompatibleHost) {
				err = fmt.Errorf("%w: %w", ErrIncompatibleHost, err)
			}
			r.failure.Store(&err)
			return nil, err
		}

		r.bundle.Store(b)
		slog.Info("entity-state capabilities resolved",
			"version", b.Version,
			"flags", b.FlagsIndex,
			"pose", b.PoseIndex,
			"bed_position", b.BedPositionIndex,
			"sleeping_pose", b.SleepingPose)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Bundle), nil
}

// Resolved returns the bundle if resolution already succeeded.
func (r *Resolver) Resolved() (*Bundle, bool) {
	b := r.bundle.Load()
	return b, b != nil
}
