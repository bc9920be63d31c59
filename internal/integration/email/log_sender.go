package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// LogSender is an adapter.EmailSender that only logs messages. It is used
// when no email provider is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a new LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the email instead of delivering it.
func (s *LogSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	id := "log-" + uuid.NewString()
	s.logger.Info("Email not sent, no provider configured",
		"to", input.To,
		"subject", input.Subject,
		"provider_id", id,
	)
	return &adapter.SendEmailResult{ProviderID: id}, nil
}

var _ adapter.EmailSender = (*LogSender)(nil)
