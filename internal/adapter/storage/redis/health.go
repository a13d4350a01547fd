package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const healthCheckKey = lockPrefix + "health-check"

// HealthCheck implements ports.HealthChecker for Redis. The split lock and
// the caches write, so the check does a write round-trip rather than PING.
type HealthCheck struct {
	client *goredis.Client
}

func NewHealthCheck(client *goredis.Client) *HealthCheck {
	return &HealthCheck{client: client}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	var get *goredis.StringCmd
	_, err := h.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, healthCheckKey, stamp, 5*time.Second)
		get = pipe.Get(ctx, healthCheckKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis write check: %w", err)
	}
	if get.Val() != stamp {
		return fmt.Errorf("redis write check: read back %q", get.Val())
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "redis"
}
