package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/email/templates"
)

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*adapter.SendEmailResult), args.Error(1)
}

func newDispatcher(t *testing.T, sender adapter.EmailSender) *Dispatcher {
	t.Helper()
	renderer, err := templates.NewRenderer()
	require.NoError(t, err)
	return NewDispatcher(sender, renderer, nil)
}

func TestDispatcher_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("renders and sends with the template subject", func(t *testing.T) {
		sender := new(mockEmailSender)
		sender.On("Send", ctx, mock.MatchedBy(func(in adapter.SendEmailInput) bool {
			return in.To == "ana@example.com" &&
				in.Name == "Ana" &&
				in.Subject == "You've exceeded your budget" &&
				len(in.HTML) > 0 &&
				len(in.Text) > 0
		})).Return(&adapter.SendEmailResult{ProviderID: "re_1"}, nil)

		err := newDispatcher(t, sender).Send(ctx, "ana@example.com", "budget_exceeded", map[string]interface{}{
			"recipient_name": "Ana",
			"category_name":  "Food",
			"month_name":     "May",
			"year":           2024,
			"budget_amount":  "100.00",
			"spent_amount":   "120.00",
			"percentage":     100,
			"overspent":      "20.00",
		})

		require.NoError(t, err)
		sender.AssertExpectations(t)
	})

	t.Run("unknown template is permanent", func(t *testing.T) {
		sender := new(mockEmailSender)

		err := newDispatcher(t, sender).Send(ctx, "ana@example.com", "password_reset", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidTemplate))
		assert.True(t, domainerror.IsPermanentFailure(err))
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("provider errors pass through", func(t *testing.T) {
		sender := new(mockEmailSender)
		providerErr := domainerror.NewNotificationError(
			domainerror.ErrCodeTemporaryDeliveryFailure,
			"temporary email failure",
			domainerror.ErrTemporaryDeliveryFailure,
		)
		sender.On("Send", ctx, mock.Anything).Return(nil, providerErr)

		err := newDispatcher(t, sender).Send(ctx, "ana@example.com", "savings_completed", map[string]interface{}{
			"plan_name": "Car",
		})

		require.Error(t, err)
		assert.False(t, domainerror.IsPermanentFailure(err))
	})
}

func TestIsPermanentError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unauthorized", errors.New("401 unauthorized"), true},
		{"validation", errors.New("422 validation_error: invalid `to` field"), true},
		{"rate limit", errors.New("429 too many requests"), false},
		{"server error", errors.New("500 internal server error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isPermanentError(tt.err))
		})
	}
}

func TestLogSender_Send(t *testing.T) {
	result, err := NewLogSender(nil).Send(context.Background(), adapter.SendEmailInput{
		To:      "ana@example.com",
		Subject: "hello",
	})
	require.NoError(t, err)
	assert.Contains(t, result.ProviderID, "log-")
}
