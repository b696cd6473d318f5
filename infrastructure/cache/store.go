// Package cache implements the read-through article cache: a key-value
// store capability, a manager with stale-while-revalidate semantics, and
// the background refresh queue that keeps hot entries fresh.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get when a key does not exist or has
// expired. It is the only store error the manager treats as a plain miss
// without logging.
var ErrNotFound = errors.New("cache: key not found")

// Store abstracts the key-value backend (Redis in production, an in-memory
// implementation for tests and single-instance deployments).
//
// All operations are fallible; the manager recovers from every store error
// locally and falls through to the data source, so implementations should
// return errors rather than panic or retry internally.
type Store interface {
	// Get retrieves the raw value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL. A zero TTL means no
	// expiry. The write replaces the whole value atomically.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Deleting a missing key is not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeleteByPattern removes every key matching the glob pattern
	// (e.g. "article:related:42:*").
	DeleteByPattern(ctx context.Context, pattern string) error
}
