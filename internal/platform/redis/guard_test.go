package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

func TestNewMessageGuardWithoutAddrIsNoop(t *testing.T) {
	g, err := NewMessageGuard(logger.Nop(), Config{})
	require.NoError(t, err)
	require.IsType(t, NoopGuard{}, g)

	release, err := g.Acquire(context.Background(), "u", "m")
	require.NoError(t, err)
	release()
	require.NoError(t, g.Close())
}

func TestGuardDefaults(t *testing.T) {
	g := newGuard(logger.Nop(), nil, Config{})
	require.Equal(t, 5*time.Minute, g.ttl)
	require.Equal(t, "atmo:chat:inflight:u1:m1", g.key("u1", "m1"))
}

// liveGuard connects to TEST_REDIS_ADDR with a per-test key prefix.
func liveGuard(t *testing.T) *guard {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	g, err := NewMessageGuard(logger.Nop(), Config{Addr: addr, Prefix: "atmo:test:" + uuid.NewString(), TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g.(*guard)
}

func TestGuardRejectsReplayUntilReleased(t *testing.T) {
	g := liveGuard(t)
	ctx := context.Background()
	key := g.key("u1", "m1")

	release, err := g.Acquire(ctx, "u1", "m1")
	require.NoError(t, err)
	ttl, err := g.rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, time.Minute)

	_, err = g.Acquire(ctx, "u1", "m1")
	require.ErrorIs(t, err, ErrInFlight)

	other, err := g.Acquire(ctx, "u2", "m1")
	require.NoError(t, err)
	other()

	release()
	n, err := g.rdb.Exists(ctx, key).Result()
	require.NoError(t, err)
	require.Zero(t, n)

	again, err := g.Acquire(ctx, "u1", "m1")
	require.NoError(t, err)
	again()
}

func TestGuardSkipsEmptyMessageID(t *testing.T) {
	g := liveGuard(t)
	ctx := context.Background()

	first, err := g.Acquire(ctx, "u1", "  ")
	require.NoError(t, err)
	second, err := g.Acquire(ctx, "u1", "")
	require.NoError(t, err)
	first()
	second()

	keys, err := g.rdb.Keys(ctx, g.prefix+":*").Result()
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestGuardDegradesWhenRedisUnavailable(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	g := newGuard(logger.Nop(), rdb, Config{})

	release, err := g.Acquire(context.Background(), "u1", "m1")
	require.NoError(t, err)
	require.NotNil(t, release)
	release()
}
