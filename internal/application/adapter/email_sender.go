// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ProviderID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// NotificationSender delivers a templated notification to one recipient.
type NotificationSender interface {
	Send(ctx context.Context, recipient string, templateKey string, templateData map[string]interface{}) error
}

// DeliveryGuard remembers delivered notifications so redelivered tasks are
// not sent twice.
type DeliveryGuard interface {
	WasDelivered(ctx context.Context, key string) (bool, error)
	MarkDelivered(ctx context.Context, key string, ttl time.Duration) error
}

// Locker provides mutual exclusion across worker processes.
type Locker interface {
	// TryLock acquires key for at most ttl. It returns false when another
	// holder owns the lock. The returned release func is safe to call once.
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}
