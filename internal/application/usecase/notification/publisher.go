package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Publisher turns domain events into queued notification tasks. It runs
// inside the caller's unit of work so the task commits with the state change
// that caused it.
type Publisher struct {
	options adapter.EnqueueOptions
	logger  *slog.Logger
}

// NewPublisher creates a new Publisher.
func NewPublisher(options adapter.EnqueueOptions, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		options: options,
		logger:  logger,
	}
}

// Publish queues a notification for the user. It returns false without error
// when the user no longer exists or has opted out of the template.
func (p *Publisher) Publish(ctx context.Context, repos adapter.Repositories, userID uuid.UUID, template entity.NotificationTemplate, data map[string]interface{}) (bool, error) {
	user, err := repos.Users.FindByID(ctx, userID, adapter.OnlyActive)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			p.logger.Warn("Skipping notification for missing user",
				"user_id", userID,
				"template", template,
			)
			return false, nil
		}
		return false, fmt.Errorf("failed to load notification recipient: %w", err)
	}

	if !user.WantsNotification(template) {
		p.logger.Debug("Notification suppressed by user preferences",
			"user_id", userID,
			"template", template,
		)
		return false, nil
	}

	msg := Message{
		RecipientEmail: user.Email,
		RecipientName:  user.Name,
		Template:       template,
		Data:           data,
	}

	task, err := repos.Tasks.Enqueue(ctx, entity.TaskSendNotification, msg.ToPayload(), p.options)
	if err != nil {
		return false, fmt.Errorf("failed to enqueue notification: %w", err)
	}

	p.logger.Info("Notification queued",
		"task_id", task.ID,
		"user_id", userID,
		"template", template,
	)
	return true, nil
}
