package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

func TestTokenService_ValidateAccessToken(t *testing.T) {
	svc := NewTokenService("test-secret", "finance-tracker")
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token, err := svc.IssueAccessToken(userID, "user@example.com", time.Hour)
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "user@example.com", claims.Email)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.IssueAccessToken(userID, "user@example.com", -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(context.Background(), token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerror.ErrExpiredToken))
		code, _ := domainerror.CodeOf(err)
		assert.Equal(t, string(domainerror.ErrCodeExpiredToken), code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret", "finance-tracker")
		token, err := other.IssueAccessToken(userID, "user@example.com", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(context.Background(), token)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidToken))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenService("test-secret", "someone-else")
		token, err := other.IssueAccessToken(userID, "user@example.com", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(context.Background(), token)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidToken))
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		claims := CustomClaims{
			UserID:    userID.String(),
			TokenType: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    "finance-tracker",
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(context.Background(), token)
		assert.True(t, errors.Is(err, domainerror.ErrInvalidToken))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(context.Background(), "not-a-jwt")
		assert.True(t, errors.Is(err, domainerror.ErrInvalidToken))
	})
}
