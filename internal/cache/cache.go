// Package cache keeps completed verdicts so repeat lookups of the same URL skip
// VirusTotal until the entry expires.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"time"

	"github.com/raysh454/urlanalyzer/internal/analyzer"
)

// ErrMiss is returned by Get when no live entry exists for the URL.
var ErrMiss = errors.New("cache miss")

// Cache stores verdicts keyed by sanitized URL.
type Cache interface {
	Get(ctx context.Context, url string) (*analyzer.Verdict, error)
	Set(ctx context.Context, url string, v *analyzer.Verdict) error
	Close() error
}

// Config selects and tunes the cache backend.
type Config struct {
	// RedisAddr selects the Redis backend. Empty means in-memory.
	RedisAddr string

	// TTL is how long a verdict stays cached.
	TTL time.Duration
}

func DefaultConfig() Config {
	return Config{TTL: time.Hour}
}

const keyPrefix = "ua:v:"

// Key returns the storage key for url.
func Key(url string) string {
	sum := sha1.Sum([]byte(url))
	return keyPrefix + hex.EncodeToString(sum[:])
}
