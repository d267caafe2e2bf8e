package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReportCache is a read-through cache for computed dashboard reports.
// FetchJSON fills dest from the cache when the key is present, otherwise
// invokes loader and stores its JSON-encoded result. Cache failures degrade
// to recomputation, never to request failure.
type ReportCache interface {
	FetchJSON(ctx context.Context, key string, dest any, loader func(ctx context.Context) (any, error)) error
	Invalidate(ctx context.Context, pattern string) error
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisReportCache implements ReportCache on Redis. Suitable for deployments
// where several instances serve the same dashboard.
type RedisReportCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisReportCache creates a Redis-backed report cache
func NewRedisReportCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReportCache{
		client:    client,
		keyPrefix: "report:",
		ttl:       ttl,
		logger:    logger,
	}, nil
}

// NewRedisReportCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisReportCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisReportCache {
	return &RedisReportCache{
		client:    client,
		keyPrefix: "report:",
		ttl:       ttl,
		logger:    logger,
	}
}

// FetchJSON implements ReportCache
func (c *RedisReportCache) FetchJSON(ctx context.Context, key string, dest any, loader func(ctx context.Context) (any, error)) error {
	fullKey := c.keyPrefix + key

	payload, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(payload, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry: drop it and recompute.
		c.client.Del(ctx, fullKey)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("report cache read failed, recomputing",
			zap.String("key", key), zap.Error(err))
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding report for cache: %w", err)
	}
	if err := c.client.Set(ctx, fullKey, encoded, c.ttl).Err(); err != nil {
		c.logger.Warn("report cache write failed",
			zap.String("key", key), zap.Error(err))
	}

	return json.Unmarshal(encoded, dest)
}

// Invalidate removes cached reports matching the given pattern.
func (c *RedisReportCache) Invalidate(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// NoopReportCache is the fallback when Redis is disabled: every fetch
// recomputes via the loader.
type NoopReportCache struct{}

// NewNoopReportCache creates a pass-through cache
func NewNoopReportCache() *NoopReportCache {
	return &NoopReportCache{}
}

// FetchJSON implements ReportCache by always invoking the loader.
func (c *NoopReportCache) FetchJSON(ctx context.Context, key string, dest any, loader func(ctx context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, dest)
}

// Invalidate implements ReportCache as a no-op.
func (c *NoopReportCache) Invalidate(ctx context.Context, pattern string) error {
	return nil
}
