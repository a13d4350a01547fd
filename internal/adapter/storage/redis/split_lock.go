package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SplitLocker implements ports.SplitLocker using Redis SET NX.
type SplitLocker struct {
	client *goredis.Client

	mu     sync.Mutex
	tokens map[string]string
}

// NewSplitLocker creates a new Redis-backed split locker.
func NewSplitLocker(client *goredis.Client) *SplitLocker {
	return &SplitLocker{
		client: client,
		tokens: make(map[string]string),
	}
}

// Acquire takes the lock for key if no one else holds it.
// Returns false, nil when another holder owns the key.
func (l *SplitLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	result, err := l.client.SetArgs(ctx, lockPrefix+key, token, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis lock acquire: %w", err)
	}
	if result != "OK" {
		return false, nil
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()
	return true, nil
}

// Release drops the lock if this locker still owns it. Releasing a lock that
// expired or was never taken is a no-op.
func (l *SplitLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}

	if err := releaseScript.Run(ctx, l.client, []string{lockPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("redis lock release: %w", err)
	}
	return nil
}
