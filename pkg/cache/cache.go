// Package cache stores registry responses between lookups.
//
// Enrichment calls (GitHub user profiles, Packagist package manifests) are
// repeated every time an author or package resurfaces under a new keyword.
// Caching them keeps the crawl within registry rate limits.
//
// # Backends
//
//   - [RedisCache]: shared cache for long-running deployments
//   - [FileCache]: local directory cache (~/.cache/harvester/)
//   - [NullCache]: disables caching
//
// Use [Namespace] to give each registry its own key space on one backend.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that need to distinguish a miss from a hit.
var ErrCacheMiss = errors.New("cache miss")

// Default TTLs for cached registry responses.
const (
	TTLProfile = 7 * 24 * time.Hour // GitHub user profiles
	TTLPackage = 24 * time.Hour     // Packagist package manifests
)

// Cache is a byte-oriented key/value cache with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached bytes for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
