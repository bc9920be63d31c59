package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/infra/db/dbtest"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

func TestJobLocker_TryLock(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.New(t)
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	locker := NewJobLocker(gdb).(*jobLocker)
	locker.now = func() time.Time { return now }

	release, acquired, err := locker.TryLock(ctx, "job:sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	_, acquired, err = locker.TryLock(ctx, "job:sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired, "second holder must be refused")

	// A second locker on the same database stands in for another worker.
	other := NewJobLocker(gdb).(*jobLocker)
	other.now = locker.now
	_, acquired, err = other.TryLock(ctx, "job:sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	release()
	_, acquired, err = other.TryLock(ctx, "job:sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestJobLocker_ExpiredLocksAreTakenOverAndPurged(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.New(t)
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	locker := NewJobLocker(gdb).(*jobLocker)
	locker.now = func() time.Time { return now }

	releaseOld, acquired, err := locker.TryLock(ctx, "job:progress", time.Second)
	require.NoError(t, err)
	require.True(t, acquired)
	_, acquired, err = locker.TryLock(ctx, "job:progress:2024-05-10T00:00:00Z", time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	now = now.Add(2 * time.Second)
	_, acquired, err = locker.TryLock(ctx, "job:progress", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	releaseOld()

	var names []string
	require.NoError(t, gdb.Model(&model.JobLockModel{}).Pluck("name", &names).Error)
	assert.Equal(t, []string{"job:progress"}, names, "new holder keeps its lock and expired rows are gone")
}
