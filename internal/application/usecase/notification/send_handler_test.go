package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/usecase/notification"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/cache"
)

type sentMessage struct {
	recipient string
	template  string
	data      map[string]interface{}
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (s *fakeSender) Send(_ context.Context, recipient, templateKey string, data map[string]interface{}) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{recipient: recipient, template: templateKey, data: data})
	return nil
}

func warningTask() *entity.Task {
	msg := notification.Message{
		RecipientEmail: "kim@example.com",
		RecipientName:  "Kim",
		Template:       entity.TemplateBudgetWarning,
		Data:           map[string]interface{}{"percentage": 85},
	}
	return entity.NewTask(entity.TaskSendNotification, msg.ToPayload(), 0, 0, 0)
}

func TestSendHandler_Delivers(t *testing.T) {
	sender := &fakeSender{}
	handler := notification.NewSendHandler(sender, nil, nil)

	require.NoError(t, handler.Handle(context.Background(), warningTask()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "kim@example.com", sender.sent[0].recipient)
	assert.Equal(t, "budget_warning", sender.sent[0].template)
	assert.Equal(t, "Kim", sender.sent[0].data["recipient_name"])
	assert.Equal(t, 85, sender.sent[0].data["percentage"])
}

func TestSendHandler_RedeliveryIsSuppressed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sender := &fakeSender{}
	handler := notification.NewSendHandler(sender, cache.NewRedisDeliveryGuard(client), nil)
	task := warningTask()

	require.NoError(t, handler.Handle(context.Background(), task))
	require.NoError(t, handler.Handle(context.Background(), task))

	assert.Len(t, sender.sent, 1)
}

func TestSendHandler_GuardOutageStillSends(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	sender := &fakeSender{}
	handler := notification.NewSendHandler(sender, cache.NewRedisDeliveryGuard(client), nil)

	require.NoError(t, handler.Handle(context.Background(), warningTask()))
	assert.Len(t, sender.sent, 1)
}

func TestSendHandler_FailedSendIsNotRemembered(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sender := &fakeSender{err: errors.New("provider down")}
	handler := notification.NewSendHandler(sender, cache.NewRedisDeliveryGuard(client), nil)
	task := warningTask()

	require.Error(t, handler.Handle(context.Background(), task))

	sender.err = nil
	require.NoError(t, handler.Handle(context.Background(), task))
	assert.Len(t, sender.sent, 1)
}

func TestSendHandler_RejectsBadPayloads(t *testing.T) {
	handler := notification.NewSendHandler(&fakeSender{}, nil, nil)

	missing := entity.NewTask(entity.TaskSendNotification, map[string]interface{}{"template": "budget_warning"}, 0, 0, 0)
	err := handler.Handle(context.Background(), missing)
	assert.True(t, domainerror.IsPermanentFailure(err))

	unknown := entity.NewTask(entity.TaskSendNotification, map[string]interface{}{
		"recipient_email": "kim@example.com",
		"template":        "birthday",
	}, 0, 0, 0)
	err = handler.Handle(context.Background(), unknown)
	assert.True(t, domainerror.IsPermanentFailure(err))
}

func TestMessage_PayloadRoundTrip(t *testing.T) {
	msg := notification.Message{
		RecipientEmail: "kim@example.com",
		RecipientName:  "Kim",
		Template:       entity.TemplateSavingsCompleted,
	}

	got, err := notification.MessageFromPayload(msg.ToPayload())
	require.NoError(t, err)
	assert.Equal(t, msg.RecipientEmail, got.RecipientEmail)
	assert.Equal(t, msg.Template, got.Template)
	assert.NotNil(t, got.Data)
}
