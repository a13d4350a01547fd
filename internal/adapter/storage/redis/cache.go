package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace-settlement/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// RateTableCache implements ports.RateTableCache. Tables are stored as JSON.
type RateTableCache struct {
	client *goredis.Client
}

// NewRateTableCache creates a new Redis-backed rate table cache.
func NewRateTableCache(client *goredis.Client) *RateTableCache {
	return &RateTableCache{client: client}
}

// Get returns the cached table for key, or nil, nil on a miss.
func (c *RateTableCache) Get(ctx context.Context, key string) (domain.RateTable, error) {
	val, err := c.client.Get(ctx, rateTablePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis rate table get: %w", err)
	}

	var table domain.RateTable
	if err := json.Unmarshal(val, &table); err != nil {
		return nil, fmt.Errorf("decode cached rate table: %w", err)
	}
	return table, nil
}

// Set stores a rate table with TTL. A zero TTL keeps it until evicted.
func (c *RateTableCache) Set(ctx context.Context, key string, table domain.RateTable, ttl time.Duration) error {
	val, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode rate table: %w", err)
	}
	if err := c.client.Set(ctx, rateTablePrefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis rate table set: %w", err)
	}
	return nil
}

// WebhookSeenCache implements ports.WebhookSeenCache.
type WebhookSeenCache struct {
	client *goredis.Client
}

// NewWebhookSeenCache creates a new Redis-backed webhook seen-cache.
func NewWebhookSeenCache(client *goredis.Client) *WebhookSeenCache {
	return &WebhookSeenCache{client: client}
}

// Seen reports whether webhookID was marked recently.
func (c *WebhookSeenCache) Seen(ctx context.Context, webhookID string) (bool, error) {
	n, err := c.client.Exists(ctx, webhookSeenPrefix+webhookID).Result()
	if err != nil {
		return false, fmt.Errorf("redis webhook seen: %w", err)
	}
	return n == 1, nil
}

// MarkSeen records webhookID for ttl.
func (c *WebhookSeenCache) MarkSeen(ctx context.Context, webhookID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, webhookSeenPrefix+webhookID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis webhook mark seen: %w", err)
	}
	return nil
}
