package capability

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/udisondev/sleeper/internal/metadata"
	"github.com/udisondev/sleeper/internal/model"
)

// Field indices that do not move between supported builds.
const (
	flagsIndex = metadata.IndexFlags
	poseIndex  = metadata.IndexPose
)

// bedPositionIndex per minor release of 1.x.
// Living-entity fields gained one entry in 1.15.
const (
	bedPositionIndex114 = 12
	bedPositionIndex115 = 13
)

// VersionProbe derives the layout from the configured host build version.
// Non-zero overrides take precedence over the version table.
type VersionProbe struct {
	Version                  string
	BedPositionIndexOverride int
	PoseIndexOverride        int
}

// Probe implements Probe. The sample must carry a pose field: builds without one
// cannot display sleeping at all.
func (p VersionProbe) Probe(sample *model.Player) (*Bundle, error) {
	major, minor, err := parseVersion(p.Version)
	if err != nil {
		return nil, err
	}
	if major != 1 || minor < 14 {
		return nil, fmt.Errorf("%w: version %s has no entity pose field", ErrIncompatibleHost, p.Version)
	}

	b := &Bundle{
		Version:          p.Version,
		FlagsIndex:       flagsIndex,
		PoseIndex:        poseIndex,
		BedPositionIndex: bedPositionIndex115,
		SleepingPose:     metadata.PoseSleeping,
	}
	if minor == 14 {
		b.BedPositionIndex = bedPositionIndex114
	}
	if p.BedPositionIndexOverride > 0 {
		b.BedPositionIndex = byte(p.BedPositionIndexOverride)
	}
	if p.PoseIndexOverride > 0 {
		b.PoseIndex = byte(p.PoseIndexOverride)
	}

	if b.BedPositionIndex == b.PoseIndex || b.BedPositionIndex == b.FlagsIndex || b.PoseIndex == b.FlagsIndex {
		return nil, fmt.Errorf("%w: overlapping field indices flags=%d pose=%d bed=%d",
			ErrIncompatibleHost, b.FlagsIndex, b.PoseIndex, b.BedPositionIndex)
	}

	if sample != nil {
		v, ok := sample.Metadata().Get(b.PoseIndex)
		if _, isPose := v.(metadata.Pose); !ok || !isPose {
			return nil, fmt.Errorf("%w: sample entity %s has no pose field at index %d", ErrIncompatibleHost, sample, b.PoseIndex)
		}
	}

	return b, nil
}

// parseVersion parses "major.minor[.patch]".
func parseVersion(v string) (major, minor int, err error) {
	parts := strings.Split(strings.TrimSpace(v), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("%w: malformed version %q", ErrIncompatibleHost, v)
	}
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, convErr := strconv.Atoi(part)
		if convErr != nil || n < 0 {
			return 0, 0, fmt.Errorf("%w: malformed version %q", ErrIncompatibleHost, v)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nil
}
