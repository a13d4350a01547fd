package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"marketplace-settlement/config"
	"marketplace-settlement/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)
	port, err := strconv.Atoi(s.Port())
	require.NoError(t, err)

	client, err := NewClient(context.Background(), config.RedisConfig{Host: s.Host(), Port: port}, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, NewHealthCheck(client).Ping(context.Background()))
	assert.Equal(t, "redis", NewHealthCheck(client).Name())
}

func TestHealthCheck_WriteProbe(t *testing.T) {
	s, client := newTestClient(t)
	hc := NewHealthCheck(client)

	require.NoError(t, hc.Ping(context.Background()))
	assert.True(t, s.Exists(healthCheckKey))
	assert.Positive(t, s.TTL(healthCheckKey))

	s.Close()
	assert.ErrorContains(t, hc.Ping(context.Background()), "redis write check")
}

func TestNewClient_Unreachable(t *testing.T) {
	s := miniredis.RunT(t)
	port, err := strconv.Atoi(s.Port())
	require.NoError(t, err)
	host := s.Host()
	s.Close()

	_, err = NewClient(context.Background(), config.RedisConfig{Host: host, Port: port}, zerolog.Nop())
	assert.ErrorContains(t, err, "pinging redis")
}

func TestRateTableCache_RoundTrip(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewRateTableCache(client)
	ctx := context.Background()

	got, err := cache.Get(ctx, "USD:2024-03-04")
	require.NoError(t, err)
	assert.Nil(t, got, "miss should return nil")

	table := domain.RateTable{"NGN": 1550.25, "KES": 131.5}
	require.NoError(t, cache.Set(ctx, "USD:2024-03-04", table, time.Hour))

	got, err = cache.Get(ctx, "USD:2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestRateTableCache_Expiry(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewRateTableCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "USD:2024-03-05", domain.RateTable{"GHS": 12.1}, time.Minute))
	assert.True(t, s.Exists("rates:USD:2024-03-05"))

	s.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "USD:2024-03-05")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRateTableCache_CorruptEntry(t *testing.T) {
	s, client := newTestClient(t)
	require.NoError(t, s.Set("rates:USD:2024-03-06", "not-json"))

	_, err := NewRateTableCache(client).Get(context.Background(), "USD:2024-03-06")
	assert.ErrorContains(t, err, "decode cached rate table")
}

func TestWebhookSeenCache(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewWebhookSeenCache(client)
	ctx := context.Background()

	seen, err := cache.Seen(ctx, "wh_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, cache.MarkSeen(ctx, "wh_1", time.Hour))

	seen, err = cache.Seen(ctx, "wh_1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = cache.Seen(ctx, "wh_2")
	require.NoError(t, err)
	assert.False(t, seen, "other ids are unaffected")

	s.FastForward(2 * time.Hour)
	seen, err = cache.Seen(ctx, "wh_1")
	require.NoError(t, err)
	assert.False(t, seen, "entry should expire")
}

func TestSplitLocker_AcquireRelease(t *testing.T) {
	_, client := newTestClient(t)
	a := NewSplitLocker(client)
	b := NewSplitLocker(client)
	ctx := context.Background()

	ok, err := a.Acquire(ctx, "split:order-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Acquire(ctx, "split:order-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	require.NoError(t, b.Release(ctx, "split:order-1"), "releasing a lock we never held is a no-op")

	ok, err = b.Acquire(ctx, "split:order-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "foreign release must not drop the lock")

	require.NoError(t, a.Release(ctx, "split:order-1"))

	ok, err = b.Acquire(ctx, "split:order-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSplitLocker_ExpiredLockNotStolenOnRelease(t *testing.T) {
	s, client := newTestClient(t)
	a := NewSplitLocker(client)
	b := NewSplitLocker(client)
	ctx := context.Background()

	ok, err := a.Acquire(ctx, "split:order-2", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	s.FastForward(2 * time.Second)

	ok, err = b.Acquire(ctx, "split:order-2", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, a.Release(ctx, "split:order-2"))
	assert.True(t, s.Exists("lock:split:order-2"), "stale owner must not release the new holder's lock")
}

func TestRateLimitStore_Allow(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRateLimitStore(client)
	fixed := time.Unix(1_700_000_040, 0)
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		result, err := store.Allow(ctx, "10.0.0.1:webhooks", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 3-i, result.Remaining)
	}

	result, err := store.Allow(ctx, "10.0.0.1:webhooks", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, int64(0), result.Remaining)
	assert.Equal(t, int64(1_700_000_040/60+1)*60, result.ResetAt)

	other, err := store.Allow(ctx, "10.0.0.2:webhooks", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are counted independently")
}

func TestRateLimitStore_NewWindowResets(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRateLimitStore(client)
	now := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Allow(ctx, "ip:webhooks", 1, time.Minute)
	require.NoError(t, err)
	blocked, err := store.Allow(ctx, "ip:webhooks", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	now = now.Add(time.Minute)
	fresh, err := store.Allow(ctx, "ip:webhooks", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh.Allowed)
}

func TestRateLimitStore_CounterExpiresWithWindow(t *testing.T) {
	s, client := newTestClient(t)
	store := NewRateLimitStore(client)
	store.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	_, err := store.Allow(context.Background(), "ip:webhooks", 5, 30*time.Second)
	require.NoError(t, err)

	key := "ratelimit:ip:webhooks:" + strconv.FormatInt(1_700_000_000/30, 10)
	require.True(t, s.Exists(key))
	assert.Equal(t, 31*time.Second, s.TTL(key))
}
