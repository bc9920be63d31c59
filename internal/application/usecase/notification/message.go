// Package notification queues and delivers user notifications.
package notification

import (
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Message is the payload of a notification.send task.
type Message struct {
	RecipientEmail string
	RecipientName  string
	Template       entity.NotificationTemplate
	Data           map[string]interface{}
}

// ToPayload converts the message into a task payload.
func (m Message) ToPayload() map[string]interface{} {
	return map[string]interface{}{
		"recipient_email": m.RecipientEmail,
		"recipient_name":  m.RecipientName,
		"template":        string(m.Template),
		"data":            m.Data,
	}
}

// MessageFromPayload decodes a task payload produced by ToPayload.
func MessageFromPayload(payload map[string]interface{}) (Message, error) {
	email, _ := payload["recipient_email"].(string)
	name, _ := payload["recipient_name"].(string)
	template, _ := payload["template"].(string)
	data, _ := payload["data"].(map[string]interface{})

	if email == "" || template == "" {
		return Message{}, domainerror.NewNotificationError(
			domainerror.ErrCodeInvalidTaskPayload,
			"notification payload requires recipient_email and template",
			domainerror.ErrInvalidTaskPayload,
		)
	}
	if data == nil {
		data = make(map[string]interface{})
	}

	return Message{
		RecipientEmail: email,
		RecipientName:  name,
		Template:       entity.NotificationTemplate(template),
		Data:           data,
	}, nil
}
