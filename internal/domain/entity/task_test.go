package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskRetryBackoffDoubles(t *testing.T) {
	task := NewTask(TaskSendNotification, nil, 0, 5, 10*time.Second)

	want := []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second, 80 * time.Second}
	for i, expected := range want {
		task.MarkFailed(errors.New("temporary"), false)
		assert.Equal(t, TaskStatusPending, task.Status, "attempt %d", i+1)
		assert.Equal(t, expected, task.RetryDelay(), "attempt %d", i+1)
	}
}

func TestTaskFailsAfterMaxAttempts(t *testing.T) {
	task := NewTask(TaskCheckBudgetThresholds, nil, 0, 2, time.Second)
	assert.Equal(t, 3, task.MaxAttempts)

	task.MarkFailed(errors.New("boom"), false)
	task.MarkFailed(errors.New("boom"), false)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.True(t, task.CanRetry())

	task.MarkFailed(errors.New("boom"), false)
	assert.False(t, task.CanRetry())
	assert.Equal(t, TaskStatusFailed, task.Status)
	assert.NotNil(t, task.ProcessedAt)
	assert.Equal(t, "boom", task.LastError)
}

func TestTaskPermanentFailureStopsRetries(t *testing.T) {
	task := NewTask(TaskSendNotification, nil, 0, 5, time.Second)
	task.MarkFailed(errors.New("invalid recipient"), true)

	assert.Equal(t, TaskStatusFailed, task.Status)
	assert.Equal(t, 1, task.Attempts)
}

func TestTaskRetryDelayIsCapped(t *testing.T) {
	task := NewTask(TaskSendNotification, nil, 0, 50, 10*time.Minute)
	task.Attempts = 10

	assert.Equal(t, MaxTaskRetryDelay, task.RetryDelay())
}

func TestTaskDefaults(t *testing.T) {
	task := NewTask(TaskSendNotification, nil, time.Minute, 0, 0)

	assert.Equal(t, DefaultTaskMaxRetries+1, task.MaxAttempts)
	assert.Equal(t, DefaultTaskRetryBackoff, task.RetryBackoff)
	assert.NotNil(t, task.Payload)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.WithinDuration(t, task.CreatedAt.Add(time.Minute), task.ScheduledAt, 0)
}
