// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

// UserIDKey is the gin context key holding the authenticated user's ID.
const UserIDKey ContextKey = "user_id"

// AuthMiddleware authenticates API requests with access tokens issued by
// the identity service. The ledger never issues tokens itself.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate returns a handler that rejects requests without a valid
// bearer token and records the token's user as the request owner.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
		switch {
		case !found && scheme == "":
			abortUnauthorized(c, "Authorization header is required", domainerror.ErrCodeMissingToken)
			return
		case !found || scheme != "Bearer":
			abortUnauthorized(c, "Invalid authorization header format", domainerror.ErrCodeInvalidToken)
			return
		case strings.TrimSpace(token) == "":
			abortUnauthorized(c, "Token is required", domainerror.ErrCodeMissingToken)
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil || claims == nil || claims.UserID == uuid.Nil {
			abortUnauthorized(c, "Invalid or expired token", domainerror.ErrCodeInvalidToken)
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string, code domainerror.AuthErrorCode) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
}

// GetUserIDFromContext returns the user recorded by Authenticate.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	id, ok := c.Value(string(UserIDKey)).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
