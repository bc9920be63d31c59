package email

import (
	"context"
	"log/slog"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/email/templates"
)

// Dispatcher implements adapter.NotificationSender by rendering a template
// and handing the result to an EmailSender.
type Dispatcher struct {
	sender   adapter.EmailSender
	renderer *templates.Renderer
	logger   *slog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(sender adapter.EmailSender, renderer *templates.Renderer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		sender:   sender,
		renderer: renderer,
		logger:   logger,
	}
}

// Send renders templateKey with templateData and emails it to recipient.
func (d *Dispatcher) Send(ctx context.Context, recipient string, templateKey string, templateData map[string]interface{}) error {
	template := entity.NotificationTemplate(templateKey)
	if !template.IsValid() || !d.renderer.Has(templateKey) {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeInvalidTemplate,
			"unknown template "+templateKey,
			domainerror.ErrInvalidTemplate,
		)
	}

	html, text, err := d.renderer.Render(templateKey, templateData)
	if err != nil {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeTemplateRenderFailed,
			err.Error(),
			domainerror.ErrTemplateRenderFailed,
		)
	}

	name, _ := templateData["recipient_name"].(string)
	result, err := d.sender.Send(ctx, adapter.SendEmailInput{
		To:      recipient,
		Name:    name,
		Subject: template.Subject(),
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return err
	}

	d.logger.Debug("Email handed to provider",
		"template", templateKey,
		"recipient", recipient,
		"provider_id", result.ProviderID,
	)
	return nil
}

var _ adapter.NotificationSender = (*Dispatcher)(nil)
