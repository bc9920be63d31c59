package entity

import (
	"time"

	"github.com/google/uuid"
)

// Task names understood by the worker.
const (
	TaskCheckBudgetThresholds = "budget.check_thresholds"
	TaskSendNotification      = "notification.send"
)

// TaskStatus represents the status of a task in the queue.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusDispatched TaskStatus = "dispatched"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusFailed     TaskStatus = "failed"
)

const (
	// DefaultTaskMaxRetries is used when a task is enqueued without a retry limit.
	DefaultTaskMaxRetries = 3
	// DefaultTaskRetryBackoff is the first retry delay; later delays double.
	DefaultTaskRetryBackoff = 30 * time.Second
	// MaxTaskRetryDelay caps the exponential backoff.
	MaxTaskRetryDelay = time.Hour
)

// Task is a unit of background work stored in the outbox until it is executed.
type Task struct {
	ID           uuid.UUID
	Name         string
	Payload      map[string]interface{}
	Status       TaskStatus
	Attempts     int
	MaxAttempts  int
	RetryBackoff time.Duration
	LastError    string
	CreatedAt    time.Time
	ScheduledAt  time.Time
	ProcessedAt  *time.Time
}

// NewTask creates a pending task scheduled after delay.
func NewTask(name string, payload map[string]interface{}, delay time.Duration, maxRetries int, retryBackoff time.Duration) *Task {
	now := time.Now().UTC()
	if maxRetries <= 0 {
		maxRetries = DefaultTaskMaxRetries
	}
	if retryBackoff <= 0 {
		retryBackoff = DefaultTaskRetryBackoff
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	return &Task{
		ID:           uuid.New(),
		Name:         name,
		Payload:      payload,
		Status:       TaskStatusPending,
		MaxAttempts:  maxRetries + 1,
		RetryBackoff: retryBackoff,
		CreatedAt:    now,
		ScheduledAt:  now.Add(delay),
	}
}

// MarkDone marks the task as successfully executed.
func (t *Task) MarkDone() {
	t.Status = TaskStatusDone
	now := time.Now().UTC()
	t.ProcessedAt = &now
}

// MarkFailed records a failed attempt and schedules a retry if attempts remain.
func (t *Task) MarkFailed(err error, permanent bool) {
	t.Attempts++
	t.LastError = err.Error()

	if permanent || !t.CanRetry() {
		t.Status = TaskStatusFailed
		now := time.Now().UTC()
		t.ProcessedAt = &now
	} else {
		t.Status = TaskStatusPending
		t.ScheduledAt = time.Now().UTC().Add(t.RetryDelay())
	}
}

// RetryDelay returns RetryBackoff * 2^(attempts-1), capped at MaxTaskRetryDelay.
func (t *Task) RetryDelay() time.Duration {
	delay := t.RetryBackoff
	for i := 1; i < t.Attempts; i++ {
		delay *= 2
		if delay >= MaxTaskRetryDelay {
			return MaxTaskRetryDelay
		}
	}
	if delay > MaxTaskRetryDelay {
		return MaxTaskRetryDelay
	}
	return delay
}

// CanRetry returns true if the task has attempts left.
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}
