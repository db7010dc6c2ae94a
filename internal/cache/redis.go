package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/raysh454/urlanalyzer/internal/analyzer"
	"github.com/raysh454/urlanalyzer/internal/logging"
)

// RedisCache stores verdicts as JSON strings with a TTL.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewRedisCache connects to addr and pings it once.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration, logger logging.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With(logging.Field{Key: "component", Value: "cache"}),
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, url string) (*analyzer.Verdict, error) {
	raw, err := c.rdb.Get(ctx, Key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var v analyzer.Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Warn("dropping undecodable cache entry", logging.Field{Key: "url", Value: url}, logging.Field{Key: "error", Value: err.Error()})
		c.rdb.Del(ctx, Key(url))
		return nil, ErrMiss
	}
	return &v, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, v *analyzer.Verdict) error {
	if v == nil || c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(url), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error { return c.rdb.Close() }

// New returns a RedisCache when cfg.RedisAddr is set, otherwise a MemoryCache.
func New(ctx context.Context, cfg Config, logger logging.Logger) (Cache, error) {
	if cfg.RedisAddr == "" {
		return NewMemoryCache(cfg.TTL), nil
	}
	return NewRedisCache(ctx, cfg.RedisAddr, cfg.TTL, logger)
}
