package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// DefaultDeliveryMemory is how long a delivered task ID is remembered.
const DefaultDeliveryMemory = 72 * time.Hour

// SendHandler executes notification.send tasks.
type SendHandler struct {
	sender adapter.NotificationSender
	guard  adapter.DeliveryGuard
	memory time.Duration
	logger *slog.Logger
}

// NewSendHandler creates a new SendHandler. guard may be nil.
func NewSendHandler(sender adapter.NotificationSender, guard adapter.DeliveryGuard, logger *slog.Logger) *SendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SendHandler{
		sender: sender,
		guard:  guard,
		memory: DefaultDeliveryMemory,
		logger: logger,
	}
}

// Handle delivers the notification described by the task payload.
func (h *SendHandler) Handle(ctx context.Context, task *entity.Task) error {
	msg, err := MessageFromPayload(task.Payload)
	if err != nil {
		return err
	}

	if !msg.Template.IsValid() {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeInvalidTemplate,
			"unknown template "+string(msg.Template),
			domainerror.ErrInvalidTemplate,
		)
	}

	logger := h.logger.With(
		"task_id", task.ID,
		"template", msg.Template,
		"recipient", msg.RecipientEmail,
	)

	key := deliveryKey(task)
	if h.guard != nil {
		delivered, err := h.guard.WasDelivered(ctx, key)
		if err != nil {
			logger.Warn("Delivery guard unavailable, sending anyway", "error", err)
		} else if delivered {
			logger.Info("Notification already delivered, skipping")
			return nil
		}
	}

	data := make(map[string]interface{}, len(msg.Data)+1)
	for k, v := range msg.Data {
		data[k] = v
	}
	data["recipient_name"] = msg.RecipientName

	if err := h.sender.Send(ctx, msg.RecipientEmail, string(msg.Template), data); err != nil {
		return err
	}

	if h.guard != nil {
		if err := h.guard.MarkDelivered(ctx, key, h.memory); err != nil {
			logger.Warn("Failed to record delivery", "error", err)
		}
	}

	logger.Info("Notification delivered")
	return nil
}

func deliveryKey(task *entity.Task) string {
	return "notification:delivered:" + task.ID.String()
}
