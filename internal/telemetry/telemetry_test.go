package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderSnapshotsOnlyRecordedRoles(t *testing.T) {
	r := NewRecorder()
	r.Record(RoleTest, 10*time.Millisecond)

	snaps := r.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, RoleTest, snaps[0].Role)
	assert.Equal(t, int64(1), snaps[0].Count)
}

func TestRecorderTimedRecordsRegardlessOfError(t *testing.T) {
	r := NewRecorder()

	err := r.Timed(RoleBeforeAll, func() error {
		time.Sleep(time.Millisecond)
		return assert.AnError
	})
	assert.Error(t, err)

	snaps := r.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(1), snaps[0].Count)
}

func TestRecorderClampsOutOfRangeDurations(t *testing.T) {
	r := NewRecorder()
	r.Record(RoleTest, 0)
	r.Record(RoleTest, time.Hour)

	snaps := r.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(2), snaps[0].Count)
}

func TestSnapshotsSortedByRole(t *testing.T) {
	r := NewRecorder()
	r.Record(RoleTest, time.Millisecond)
	r.Record(RoleAfterAll, time.Millisecond)
	r.Record(RoleBeforeAll, time.Millisecond)

	snaps := r.Snapshots()
	require.Len(t, snaps, 3)
	assert.Equal(t, RoleAfterAll, snaps[0].Role)
	assert.Equal(t, RoleBeforeAll, snaps[1].Role)
	assert.Equal(t, RoleTest, snaps[2].Role)
}
