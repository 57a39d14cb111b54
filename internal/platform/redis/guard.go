package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// ErrInFlight is returned when the same client message is already being processed.
var ErrInFlight = errors.New("message already in flight")

// MessageGuard rejects concurrent replays of one client message id.
type MessageGuard interface {
	// Acquire claims (userID, messageID). The returned release func must be called
	// once processing ends. An empty messageID is never guarded.
	Acquire(ctx context.Context, userID, messageID string) (release func(), err error)
	Close() error
}

type guard struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewMessageGuard connects to Redis, or returns a no-op guard when Addr is empty.
func NewMessageGuard(log *logger.Logger, cfg Config) (MessageGuard, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return NoopGuard{}, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newGuard(log, rdb, cfg), nil
}

func newGuard(log *logger.Logger, rdb *goredis.Client, cfg Config) *guard {
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "atmo:chat:inflight"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &guard{log: log.With("service", "RedisMessageGuard"), rdb: rdb, prefix: prefix, ttl: ttl}
}

func (g *guard) key(userID, messageID string) string {
	return g.prefix + ":" + userID + ":" + messageID
}

func (g *guard) Acquire(ctx context.Context, userID, messageID string) (func(), error) {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return func() {}, nil
	}
	key := g.key(userID, messageID)
	ok, err := g.rdb.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		// Redis trouble must not block chat; degrade to unguarded.
		g.log.Warn("message guard unavailable", "error", err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrInFlight
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := g.rdb.Del(ctx, key).Err(); err != nil {
			g.log.Warn("message guard release failed", "error", err)
		}
	}, nil
}

func (g *guard) Close() error { return g.rdb.Close() }

// NoopGuard never rejects.
type NoopGuard struct{}

func (NoopGuard) Acquire(context.Context, string, string) (func(), error) { return func() {}, nil }
func (NoopGuard) Close() error                                            { return nil }
