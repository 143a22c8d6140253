// Package cache is a JSON cache on Redis that degrades to a no-op when Redis
// is not reachable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when SetJSON is called without a TTL.
const DefaultTTL = 10 * time.Minute

// Redis wraps a go-redis client. A nil client means the cache is bypassed.
type Redis struct {
	client *redis.Client
	logger *slog.Logger

	warnedUnavailable atomic.Bool
}

// Options configures NewRedis.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects to Redis. If addr is empty or the server does not answer
// a ping, the returned cache bypasses every call.
func NewRedis(ctx context.Context, opts Options, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		logger.Info("redis not configured, wardrobe cache disabled")
		return &Redis{logger: logger}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, bypassing cache", "addr", opts.Addr, "error", err)
		_ = client.Close()
		return &Redis{logger: logger}
	}

	logger.Info("redis cache connected", "addr", opts.Addr)
	return &Redis{client: client, logger: logger}
}

// Enabled reports whether calls reach Redis.
func (r *Redis) Enabled() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis error, cache results may be stale or bypassed", "error", err)
	}
}

// GetJSON loads key into out. It reports false on a miss.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key for ttl.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.Enabled() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Close releases the client.
func (r *Redis) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}
