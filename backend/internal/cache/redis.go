// Package cache is a small JSON cache on Redis used for recommendation results.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"coursehub/backend/internal/metrics"
	apperrors "coursehub/backend/pkg/errors"
	"coursehub/backend/pkg/logger"
)

const keyPrefix = "coursehub:"

// Client stores JSON values with a fixed TTL
type Client struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New connects to Redis at addr and pings it
func New(ctx context.Context, addr string, ttl time.Duration) (*Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, apperrors.NewConfigMissingRequired("REDIS_ADDR")
	}
	if ttl <= 0 {
		return nil, apperrors.NewConfigValidationFailed("RECOMMEND_CACHE_TTL", "must be positive")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, apperrors.NewStoreUnavailable(metrics.StoreRedis, "ping", err)
	}

	return &Client{rdb: rdb, ttl: ttl, logger: logger.Named("cache")}, nil
}

// GetJSON decodes the value at key into dst. A missing key returns false
// with a nil error.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) (hit bool, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreRedis, "get", start, err) }()

	raw, err := c.rdb.Get(ctx, Key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStoreUnavailable(metrics.StoreRedis, "get", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// A stale layout is treated as a miss
		c.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// SetJSON encodes value and stores it with the client TTL
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp(metrics.StoreRedis, "set", start, err) }()

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, Key(key), raw, c.ttl).Err(); err != nil {
		return apperrors.NewStoreUnavailable(metrics.StoreRedis, "set", err)
	}
	return nil
}

// Close closes the Redis connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key namespaces a cache key for this service
func Key(key string) string {
	if strings.HasPrefix(key, keyPrefix) {
		return key
	}
	return keyPrefix + key
}
