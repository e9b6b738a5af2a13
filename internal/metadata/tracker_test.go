package metadata

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_Defaults(t *testing.T) {
	tr := NewTracker()

	flags, ok := tr.Byte(IndexFlags)
	assert.True(t, ok)
	assert.Equal(t, byte(0), flags)

	pose, ok := tr.Get(IndexPose)
	assert.True(t, ok)
	assert.Equal(t, PoseStanding, pose)
}

func TestTracker_Set_ReportsChange(t *testing.T) {
	tr := NewTracker()

	assert.True(t, tr.Set(IndexPose, PoseSneaking))
	assert.False(t, tr.Set(IndexPose, PoseSneaking))
}

func TestTracker_SetFlag(t *testing.T) {
	tr := NewTracker()

	flags, changed := tr.SetFlag(FlagSneaking, true)
	assert.True(t, changed)
	assert.Equal(t, FlagSneaking, flags)

	flags, changed = tr.SetFlag(FlagSprinting, true)
	assert.True(t, changed)
	assert.Equal(t, FlagSneaking|FlagSprinting, flags)

	flags, changed = tr.SetFlag(FlagSneaking, false)
	assert.True(t, changed)
	assert.Equal(t, FlagSprinting, flags)

	_, changed = tr.SetFlag(FlagSneaking, false)
	assert.False(t, changed)
}

func TestTracker_Byte_WrongType(t *testing.T) {
	tr := NewTracker()
	tr.Set(IndexFlags, VarInt(3))

	_, ok := tr.Byte(IndexFlags)
	assert.False(t, ok)
}

func TestTracker_Snapshot_SortedByIndex(t *testing.T) {
	tr := NewTracker()
	tr.Set(13, OptPosition{})
	tr.Set(2, String("x"))

	snap := tr.Snapshot()

	assert.Equal(t, []byte{0, 2, 6, 13}, []byte{snap[0].Index, snap[1].Index, snap[2].Index, snap[3].Index})
}

func TestTracker_ConcurrentAccess(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Go(func() {
			for j := range 100 {
				tr.SetFlag(FlagSneaking, (i+j)%2 == 0)
				_ = tr.Snapshot()
			}
		})
	}
	wg.Wait()
}
