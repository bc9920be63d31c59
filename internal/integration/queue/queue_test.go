package queue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/infra/db/dbtest"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/integration/queue"
)

type recordingHandler struct {
	mu    sync.Mutex
	seen  []uuid.UUID
	err   error
	panic bool
}

func (h *recordingHandler) Handle(_ context.Context, task *entity.Task) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, task.ID)
	if h.panic {
		panic("boom")
	}
	return h.err
}

type fakePublisher struct {
	sent []queue.TaskMessage
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, msg queue.TaskMessage) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func setup(t *testing.T) (adapter.TaskQueue, adapter.TaskRepository) {
	t.Helper()
	gdb := dbtest.New(t)
	return persistence.NewTaskQueue(gdb), persistence.NewTaskRepository(gdb)
}

func enqueue(t *testing.T, q adapter.TaskQueue, name string, opts adapter.EnqueueOptions) *entity.Task {
	t.Helper()
	task, err := q.Enqueue(context.Background(), name, map[string]interface{}{"k": "v"}, opts)
	require.NoError(t, err)
	return task
}

func TestExecutor_Outcomes(t *testing.T) {
	tests := []struct {
		name         string
		handler      *recordingHandler
		register     bool
		wantStatus   entity.TaskStatus
		wantAttempts int
	}{
		{"success", &recordingHandler{}, true, entity.TaskStatusDone, 0},
		{"retryable failure", &recordingHandler{err: errors.New("smtp timeout")}, true, entity.TaskStatusPending, 1},
		{"permanent failure", &recordingHandler{err: domainerror.NewNotificationError(domainerror.ErrCodeInvalidTaskPayload, "bad", domainerror.ErrInvalidTaskPayload)}, true, entity.TaskStatusFailed, 1},
		{"panic is retried", &recordingHandler{panic: true}, true, entity.TaskStatusPending, 1},
		{"unknown task", &recordingHandler{}, false, entity.TaskStatusFailed, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, repo := setup(t)
			executor := queue.NewExecutor(repo, nil)
			if tt.register {
				executor.Register("test.task", tt.handler)
			}
			task := enqueue(t, q, "test.task", adapter.EnqueueOptions{RetryBackoff: time.Minute})

			require.NoError(t, executor.Execute(context.Background(), task))

			got, err := repo.FindByID(context.Background(), task.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantAttempts, got.Attempts)
			if tt.wantStatus == entity.TaskStatusPending {
				assert.True(t, got.ScheduledAt.After(time.Now().UTC()), "retry must be scheduled in the future")
				assert.NotEmpty(t, got.LastError)
			}
		})
	}
}

func TestExecutor_GivesUpAfterMaxRetries(t *testing.T) {
	q, repo := setup(t)
	executor := queue.NewExecutor(repo, nil)
	executor.Register("test.task", &recordingHandler{err: errors.New("down")})
	task := enqueue(t, q, "test.task", adapter.EnqueueOptions{MaxRetries: 2})

	for i := 0; i < 3; i++ {
		require.NoError(t, executor.Execute(context.Background(), task))
	}

	got, err := repo.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusFailed, got.Status)
	assert.Equal(t, 3, got.Attempts)
}

func TestWorker_ProcessesOnlyDueTasks(t *testing.T) {
	q, repo := setup(t)
	handler := &recordingHandler{}
	executor := queue.NewExecutor(repo, nil)
	executor.Register("test.task", handler)
	worker := queue.NewWorker(repo, executor, queue.WorkerConfig{BatchSize: 2}, nil)

	due := []*entity.Task{
		enqueue(t, q, "test.task", adapter.EnqueueOptions{}),
		enqueue(t, q, "test.task", adapter.EnqueueOptions{}),
		enqueue(t, q, "test.task", adapter.EnqueueOptions{}),
	}
	later := enqueue(t, q, "test.task", adapter.EnqueueOptions{Delay: time.Hour})

	assert.Equal(t, 3, worker.Drain(context.Background()))
	assert.Len(t, handler.seen, 3)

	for _, task := range due {
		got, err := repo.FindByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.TaskStatusDone, got.Status)
	}

	got, err := repo.FindByID(context.Background(), later.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusPending, got.Status)
}

func TestWorker_StartStopsWithContext(t *testing.T) {
	_, repo := setup(t)
	worker := queue.NewWorker(repo, queue.NewExecutor(repo, nil), queue.WorkerConfig{PollInterval: 10 * time.Millisecond}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, worker.Start(ctx))
}

func TestRelay_PublishesAndReleasesOnFailure(t *testing.T) {
	q, repo := setup(t)
	first := enqueue(t, q, entity.TaskSendNotification, adapter.EnqueueOptions{})

	publisher := &fakePublisher{}
	relay := queue.NewRelay(repo, publisher, queue.WorkerConfig{}, nil)

	assert.Equal(t, 1, relay.RelayNow(context.Background()))
	require.Len(t, publisher.sent, 1)
	assert.Equal(t, first.ID, publisher.sent[0].TaskID)
	assert.Equal(t, entity.TaskSendNotification, publisher.sent[0].Name)

	got, err := repo.FindByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusDispatched, got.Status)

	second := enqueue(t, q, entity.TaskSendNotification, adapter.EnqueueOptions{})
	publisher.err = errors.New("broker unavailable")

	assert.Zero(t, relay.RelayNow(context.Background()))
	got, err = repo.FindByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusPending, got.Status)
}

func TestConsumer_ExecutesDispatchedTasksOnce(t *testing.T) {
	q, repo := setup(t)
	handler := &recordingHandler{}
	executor := queue.NewExecutor(repo, nil)
	executor.Register("test.task", handler)
	consumer := queue.NewConsumer(repo, executor, nil)

	task := enqueue(t, q, "test.task", adapter.EnqueueOptions{})
	publisher := &fakePublisher{}
	queue.NewRelay(repo, publisher, queue.WorkerConfig{}, nil).RelayNow(context.Background())
	require.Len(t, publisher.sent, 1)

	require.NoError(t, consumer.Handle(context.Background(), publisher.sent[0]))
	require.NoError(t, consumer.Handle(context.Background(), publisher.sent[0]))
	assert.Equal(t, []uuid.UUID{task.ID}, handler.seen)

	got, err := repo.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusDone, got.Status)

	assert.NoError(t, consumer.Handle(context.Background(), queue.TaskMessage{TaskID: uuid.New(), Name: "test.task"}))
}

func TestHousekeeper_RequeuesStaleClaims(t *testing.T) {
	q, repo := setup(t)
	ctx := context.Background()
	task := enqueue(t, q, "test.task", adapter.EnqueueOptions{})

	// The claim is stamped an hour ahead and never finished.
	claimed, err := repo.ClaimPending(ctx, time.Now().UTC().Add(time.Hour), 10, entity.TaskStatusProcessing)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	housekeeper := queue.NewHousekeeper(repo, 15*time.Minute, 7, nil)

	require.NoError(t, housekeeper.Run(ctx, time.Now().UTC().Add(time.Hour)))
	got, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusProcessing, got.Status, "claim is still fresh")

	require.NoError(t, housekeeper.Run(ctx, time.Now().UTC().Add(2*time.Hour)))
	got, err = repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusPending, got.Status)
}
