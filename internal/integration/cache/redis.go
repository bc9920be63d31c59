// Package cache provides Redis-backed coordination primitives: a distributed
// lock for periodic jobs and a delivery marker for notifications.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/ledger/internal/application/adapter"
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements adapter.Locker with SET NX PX.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker creates a new RedisLocker. Keys are namespaced by prefix.
func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

// TryLock attempts to take key for ttl. When acquired is false, release is
// a no-op.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return func() {}, false, nil
	}

	release := func() {
		// The caller's context may already be cancelled by now.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		releaseScript.Run(releaseCtx, l.client, []string{fullKey}, token)
	}
	return release, true, nil
}

// RedisDeliveryGuard implements adapter.DeliveryGuard with expiring keys.
type RedisDeliveryGuard struct {
	client *redis.Client
}

// NewRedisDeliveryGuard creates a new RedisDeliveryGuard.
func NewRedisDeliveryGuard(client *redis.Client) *RedisDeliveryGuard {
	return &RedisDeliveryGuard{client: client}
}

// WasDelivered reports whether key has been marked.
func (g *RedisDeliveryGuard) WasDelivered(ctx context.Context, key string) (bool, error) {
	err := g.client.Get(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkDelivered records key for ttl.
func (g *RedisDeliveryGuard) MarkDelivered(ctx context.Context, key string, ttl time.Duration) error {
	return g.client.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Err()
}

var (
	_ adapter.Locker        = (*RedisLocker)(nil)
	_ adapter.DeliveryGuard = (*RedisDeliveryGuard)(nil)
)
