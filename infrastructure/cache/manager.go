package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"newsdesk-backend/pkg/observability"
)

// Fetcher produces the canonical value for a cache key from the source of
// truth. Returning (nil, nil) means the entity does not exist; the manager
// caches that absence so repeated lookups of a missing entity do not
// stampede the database.
type Fetcher func(ctx context.Context) (any, error)

// envelope is the stored cache payload. Writes replace the whole envelope,
// so an entry is never partially written.
type envelope struct {
	Value    json.RawMessage `json:"v,omitempty"`
	NotFound bool            `json:"nf,omitempty"`
	StoredAt time.Time       `json:"t"`
	StaleAt  *time.Time      `json:"s,omitempty"`
}

// ManagerConfig tunes the cache manager
type ManagerConfig struct {
	RefreshWorkers   int
	RefreshQueueSize int
	RefreshTimeout   time.Duration
}

// DefaultManagerConfig returns production defaults for the manager
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		RefreshWorkers:   2,
		RefreshQueueSize: 256,
		RefreshTimeout:   30 * time.Second,
	}
}

// Manager is the read-through article cache.
//
// Semantics:
//   - On hit the cached value is returned immediately. If the entry is past
//     its stale window it is additionally handed to the background
//     refresher; the caller never waits on that work.
//   - On miss the fetcher runs synchronously (one flight per key; concurrent
//     misses share the result) and the result is stored, including an
//     explicit not-found sentinel.
//   - Store failures never fail the operation: they are logged, counted,
//     and the fetcher path is the fallback. A circuit breaker skips a
//     flapping store entirely for the open interval.
//   - Fetcher failures propagate to the caller unchanged; the cache layer
//     does not invent data and does not wrap the cause.
type Manager struct {
	store     Store
	keys      *KeyBuilder
	logger    *zap.Logger
	metrics   *observability.Collector
	flight    singleflight.Group
	refresher *Refresher
	breaker   *gobreaker.CircuitBreaker
	now       func() time.Time
}

// NewManager creates a cache manager over the given store
func NewManager(
	store Store,
	keys *KeyBuilder,
	cfg ManagerConfig,
	logger *zap.Logger,
	metrics *observability.Collector,
) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		store:   store,
		keys:    keys,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}

	m.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "cache-store",
		Interval: 60 * time.Second,
		Timeout:  15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache store breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	m.refresher = newRefresher(
		cfg.RefreshWorkers,
		cfg.RefreshQueueSize,
		cfg.RefreshTimeout,
		m.refreshEntry,
		logger,
		metrics,
	)

	return m
}

// Keys exposes the manager's key builder so callers build keys consistently
func (m *Manager) Keys() *KeyBuilder {
	return m.keys
}

// Close stops the background refresher, waiting for in-flight refreshes
func (m *Manager) Close() {
	m.refresher.Stop()
}

// GetOrFetch returns the value for key, reading through to fetcher on a
// miss. The returned bool reports whether the entity exists; a cached
// not-found sentinel yields (nil, false, nil). A staleWindow of zero
// disables background revalidation for this key.
func (m *Manager) GetOrFetch(
	ctx context.Context,
	key string,
	fetcher Fetcher,
	ttl, staleWindow time.Duration,
) (json.RawMessage, bool, error) {
	data, err := m.storeGet(ctx, key)
	if err == nil {
		var env envelope
		if jsonErr := json.Unmarshal(data, &env); jsonErr == nil {
			if m.metrics != nil {
				m.metrics.CacheHits.Inc()
			}
			if staleWindow > 0 && env.StaleAt != nil && m.now().After(*env.StaleAt) {
				if m.metrics != nil {
					m.metrics.CacheStaleHits.Inc()
				}
				m.refresher.Enqueue(key, fetcher, ttl, staleWindow)
			}
			if env.NotFound {
				return nil, false, nil
			}
			return env.Value, true, nil
		}
		// Corrupt entry: treat as a miss, the refill overwrites it
		m.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, ErrNotFound) {
		if m.metrics != nil {
			m.metrics.CacheStoreErrors.Inc()
		}
		m.logger.Warn("cache store read failed, falling through to source",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	if m.metrics != nil {
		m.metrics.CacheMisses.Inc()
	}

	// Miss: one fetch per key, concurrent callers share the result
	v, err, _ := m.flight.Do(key, func() (interface{}, error) {
		return m.fetchAndStore(ctx, key, fetcher, ttl, staleWindow)
	})
	if err != nil {
		return nil, false, err
	}

	env := v.(*envelope)
	if env.NotFound {
		return nil, false, nil
	}
	return env.Value, true, nil
}

// GetOrFetchAs is the typed read-through helper. The fetcher returns nil
// when the entity does not exist; that absence is cached and surfaced as
// (nil, nil).
func GetOrFetchAs[T any](
	ctx context.Context,
	m *Manager,
	key string,
	fetch func(ctx context.Context) (*T, error),
	ttl, staleWindow time.Duration,
) (*T, error) {
	raw, found, err := m.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		return v, nil
	}, ttl, staleWindow)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode cached value for %q: %w", key, err)
	}
	return out, nil
}

// Invalidate removes an article's metadata, content, and related-list
// entries plus any extra related keys. Each deletion is independent:
// failures are logged and the remaining deletions still run. There is no
// synchronous re-population; the next read misses and goes through the
// normal read-through path.
func (m *Manager) Invalidate(ctx context.Context, articleID string, related ...string) {
	keys := []string{
		m.keys.Meta(articleID),
		m.keys.Content(articleID),
		m.keys.Related(articleID),
	}
	keys = append(keys, related...)

	for _, key := range keys {
		if err := m.storeDelete(ctx, key); err != nil {
			m.logger.Warn("cache invalidation failed for key",
				zap.String("key", key),
				zap.String("article_id", articleID),
				zap.Error(err),
			)
		}
	}
}

// InvalidatePattern removes every key matching the glob pattern
func (m *Manager) InvalidatePattern(ctx context.Context, pattern string) {
	if err := m.store.DeleteByPattern(ctx, pattern); err != nil {
		m.logger.Warn("cache pattern invalidation failed",
			zap.String("pattern", pattern),
			zap.Error(err),
		)
	}
}

// WarmFunc pre-populates the cache entries of one entity
type WarmFunc func(ctx context.Context, id string) error

// WarmUpResult reports how a warm-up run went
type WarmUpResult struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

// WarmUp pre-populates cache entries for the given entity IDs with bounded
// concurrency, ignoring individual failures. Intended for a scheduled job,
// not the request path.
func (m *Manager) WarmUp(ctx context.Context, ids []string, warm WarmFunc, concurrency int) WarmUpResult {
	if concurrency < 1 {
		concurrency = 1
	}

	var succeeded atomic.Int64
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	// Cancellation stops dispatching; IDs never handed to a worker do not
	// count as attempted.
	attempted := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		attempted++
		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := warm(ctx, id); err != nil {
				m.logger.Debug("warm-up skipped entity",
					zap.String("id", id),
					zap.Error(err),
				)
				return
			}
			succeeded.Add(1)
		}(id)
	}
	wg.Wait()

	result := WarmUpResult{Attempted: attempted, Succeeded: int(succeeded.Load())}
	m.logger.Info("cache warm-up finished",
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
	)
	return result
}

// StoreStats reports the in-process store's counters
type StoreStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Items     int   `json:"items"`
}

// StoreStats returns counters when the backing store tracks them in
// process. The Redis store does not; its numbers live in the metrics
// endpoint and in Redis itself.
func (m *Manager) StoreStats() (StoreStats, bool) {
	tracker, ok := m.store.(interface {
		Stats() (hits, misses, evictions int64, items int)
	})
	if !ok {
		return StoreStats{}, false
	}
	var s StoreStats
	s.Hits, s.Misses, s.Evictions, s.Items = tracker.Stats()
	return s, true
}

// fetchAndStore runs the fetcher and writes the envelope back. Fetcher
// errors are returned unchanged; store write errors are logged only.
func (m *Manager) fetchAndStore(
	ctx context.Context,
	key string,
	fetcher Fetcher,
	ttl, staleWindow time.Duration,
) (*envelope, error) {
	value, err := fetcher(ctx)
	if err != nil {
		return nil, err
	}

	env := &envelope{StoredAt: m.now()}
	if value == nil {
		env.NotFound = true
	} else {
		raw, marshalErr := json.Marshal(value)
		if marshalErr != nil {
			return nil, fmt.Errorf("encode value for %q: %w", key, marshalErr)
		}
		env.Value = raw
	}
	if staleWindow > 0 {
		staleAt := m.now().Add(staleWindow)
		env.StaleAt = &staleAt
	}

	data, marshalErr := json.Marshal(env)
	if marshalErr != nil {
		return nil, fmt.Errorf("encode envelope for %q: %w", key, marshalErr)
	}

	if storeErr := m.storeSet(ctx, key, data, ttl); storeErr != nil {
		if m.metrics != nil {
			m.metrics.CacheStoreErrors.Inc()
		}
		m.logger.Warn("cache store write failed",
			zap.String("key", key),
			zap.Error(storeErr),
		)
	}

	return env, nil
}

// refreshEntry is the refresher callback for stale entries
func (m *Manager) refreshEntry(ctx context.Context, task refreshTask) error {
	_, err := m.fetchAndStore(ctx, task.key, task.fetcher, task.ttl, task.staleWindow)
	return err
}

// storeGet reads through the circuit breaker. ErrNotFound does not count
// as a breaker failure.
func (m *Manager) storeGet(ctx context.Context, key string) ([]byte, error) {
	res, err := m.breaker.Execute(func() (interface{}, error) {
		data, err := m.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res.([]byte), nil
}

func (m *Manager) storeSet(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.store.Set(ctx, key, data, ttl)
	})
	return err
}

func (m *Manager) storeDelete(ctx context.Context, key string) error {
	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.store.Delete(ctx, key)
	})
	return err
}
