package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/infra/db/dbtest"
)

func TestTaskQueue_EnqueueFailureKeepsCause(t *testing.T) {
	gdb := dbtest.New(t)
	diskFull := errors.New("disk full")
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:fail_create", func(db *gorm.DB) {
		db.AddError(diskFull)
	}))

	_, err := NewTaskQueue(gdb).Enqueue(context.Background(), entity.TaskSendNotification, nil, adapter.EnqueueOptions{})
	require.Error(t, err)

	code, ok := domainerror.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, string(domainerror.ErrCodeTaskEnqueueFailed), code)
	assert.ErrorIs(t, err, domainerror.ErrTaskEnqueueFailed)
	assert.ErrorIs(t, err, diskFull)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, domainerror.IsPermanentFailure(err))
}

func TestTaskQueue_EnqueueAppliesRetryOptions(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()

	task, err := NewTaskQueue(gdb).Enqueue(ctx, entity.TaskCheckBudgetThresholds, map[string]interface{}{"budget_id": "b1"}, adapter.EnqueueOptions{
		MaxRetries:   7,
		RetryBackoff: 90 * time.Second,
	})
	require.NoError(t, err)

	stored, err := NewTaskRepository(gdb).FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.MaxAttempts)
	assert.Equal(t, 90*time.Second, stored.RetryBackoff)
	assert.Equal(t, "b1", stored.Payload["budget_id"])
}
