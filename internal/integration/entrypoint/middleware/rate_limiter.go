package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// RateLimiter limits write requests per authenticated user, falling back to
// the client IP for anonymous requests. Counters live in the limiter store,
// so a Redis store shares the budget between API replicas.
type RateLimiter struct {
	limiter *limiter.Limiter
	logger  *slog.Logger
}

// NewRateLimiter creates a process-local rate limiter. A non-positive
// maxAttempts disables limiting.
func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		return &RateLimiter{logger: slog.Default()}
	}
	return newRateLimiter(memory.NewStore(), maxAttempts, window)
}

// NewRedisRateLimiter creates a rate limiter whose counters are stored in
// Redis under keyPrefix.
func NewRedisRateLimiter(client *redis.Client, keyPrefix string, maxAttempts int, window time.Duration) (*RateLimiter, error) {
	if maxAttempts <= 0 {
		return &RateLimiter{logger: slog.Default()}, nil
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: keyPrefix + "ratelimit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit store: %w", err)
	}
	return newRateLimiter(store, maxAttempts, window), nil
}

func newRateLimiter(store limiter.Store, maxAttempts int, window time.Duration) *RateLimiter {
	rate := limiter.Rate{Period: window, Limit: int64(maxAttempts)}
	return &RateLimiter{
		limiter: limiter.New(store, rate),
		logger:  slog.Default(),
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// Read requests are never limited.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limiter == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		key := c.ClientIP()
		if userID, ok := GetUserIDFromContext(c); ok {
			key = userID.String()
		}

		limit, err := rl.limiter.Get(c.Request.Context(), key)
		if err != nil {
			// Fail open when the store is unreachable.
			rl.logger.Error("Rate limit check failed", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(limit.Remaining, 10))
		if limit.Reached {
			c.Header("Retry-After", strconv.FormatInt(max(limit.Reset-time.Now().Unix(), 1), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			return
		}

		c.Next()
	}
}
