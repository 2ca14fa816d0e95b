// Package cache provides content-addressed storage for rendered figure
// artifacts.
//
// Composing a summary figure is deterministic for a given request, so the
// figure service keys rendered PNGs by a hash of the composition request
// and reuses them across identical calls. Two implementations exist:
//
//   - FileCache: directory-backed storage with optional expiration
//   - NullCache: a no-op cache for tests or when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts keyed by request hash.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
