package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type articleStub struct {
	Title string `json:"title"`
}

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	m := NewManager(store, NewKeyBuilder(), DefaultManagerConfig(), zap.NewNop(), nil)
	t.Cleanup(m.Close)
	return m
}

func countingFetcher(value *articleStub, calls *atomic.Int64) Fetcher {
	return func(ctx context.Context) (any, error) {
		calls.Add(1)
		if value == nil {
			return nil, nil
		}
		return value, nil
	}
}

func TestGetOrFetch_ReadThroughIsIdempotent(t *testing.T) {
	m := newTestManager(t, NewMemoryStore(100, 0, nil))
	var calls atomic.Int64
	fetcher := countingFetcher(&articleStub{Title: "breaking"}, &calls)

	first, found, err := m.GetOrFetch(context.Background(), "k", fetcher, time.Minute, 0)
	require.NoError(t, err)
	require.True(t, found)

	second, found, err := m.GetOrFetch(context.Background(), "k", fetcher, time.Minute, 0)
	require.NoError(t, err)
	require.True(t, found)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, int64(1), calls.Load(), "second call must be a cache hit")
}

func TestGetOrFetch_NotFoundSentinelIsCached(t *testing.T) {
	m := newTestManager(t, NewMemoryStore(100, 0, nil))
	var calls atomic.Int64
	fetcher := countingFetcher(nil, &calls)

	for i := 0; i < 3; i++ {
		raw, found, err := m.GetOrFetch(context.Background(), "missing", fetcher, time.Minute, 0)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, raw)
	}

	assert.Equal(t, int64(1), calls.Load(), "absence must be cached to avoid stampeding the source")
}

func TestInvalidate_NextReadFetchesAgain(t *testing.T) {
	store := NewMemoryStore(100, 0, nil)
	m := newTestManager(t, store)
	keys := m.Keys()

	var calls atomic.Int64
	fetcher := countingFetcher(&articleStub{Title: "v1"}, &calls)
	metaKey := keys.Meta("42")

	_, _, err := m.GetOrFetch(context.Background(), metaKey, fetcher, time.Hour, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), calls.Load())

	m.Invalidate(context.Background(), "42")

	_, found, err := m.GetOrFetch(context.Background(), metaKey, fetcher, time.Hour, 0)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), calls.Load(), "invalidation must force a refetch regardless of TTL")
}

func TestGetOrFetch_StaleServeDoesNotBlock(t *testing.T) {
	m := newTestManager(t, NewMemoryStore(100, 0, nil))

	base := time.Now()
	m.now = func() time.Time { return base }

	var current atomic.Value
	current.Store("v1")
	fetcher := func(ctx context.Context) (any, error) {
		return &articleStub{Title: current.Load().(string)}, nil
	}

	raw, found, err := m.GetOrFetch(context.Background(), "k", fetcher, time.Hour, 10*time.Minute)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"title":"v1"}`, string(raw))

	// Entry is now past its stale window; the source has moved on
	m.now = func() time.Time { return base.Add(11 * time.Minute) }
	current.Store("v2")

	start := time.Now()
	raw, found, err = m.GetOrFetch(context.Background(), "k", fetcher, time.Hour, 10*time.Minute)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"title":"v1"}`, string(raw), "stale value is served immediately")
	assert.Less(t, time.Since(start), 100*time.Millisecond, "stale serve must not wait on the refresh")

	// The background refresh eventually lands the new value
	require.Eventually(t, func() bool {
		raw, _, err := m.GetOrFetch(context.Background(), "k", fetcher, time.Hour, 10*time.Minute)
		return err == nil && string(raw) == `{"title":"v2"}`
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGetOrFetch_ConcurrentMissesShareOneFlight(t *testing.T) {
	m := newTestManager(t, NewMemoryStore(100, 0, nil))

	var calls atomic.Int64
	fetcher := func(ctx context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return &articleStub{Title: "shared"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw, found, err := m.GetOrFetch(context.Background(), "hot", fetcher, time.Minute, 0)
			assert.NoError(t, err)
			assert.True(t, found)
			assert.JSONEq(t, `{"title":"shared"}`, string(raw))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent misses must coalesce into one fetch")
}

// brokenStore fails every operation, simulating a Redis outage
type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (brokenStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}
func (brokenStore) Delete(ctx context.Context, keys ...string) error {
	return errors.New("connection refused")
}
func (brokenStore) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestGetOrFetch_StoreOutageFallsThroughToSource(t *testing.T) {
	m := newTestManager(t, brokenStore{})
	var calls atomic.Int64
	fetcher := countingFetcher(&articleStub{Title: "resilient"}, &calls)

	for i := 0; i < 3; i++ {
		raw, found, err := m.GetOrFetch(context.Background(), "k", fetcher, time.Minute, 0)
		require.NoError(t, err, "a store outage degrades latency, never correctness")
		require.True(t, found)
		assert.JSONEq(t, `{"title":"resilient"}`, string(raw))
	}

	assert.Equal(t, int64(3), calls.Load(), "every read falls through while the store is down")
}

func TestGetOrFetch_FetcherErrorPropagatesUnwrapped(t *testing.T) {
	m := newTestManager(t, NewMemoryStore(100, 0, nil))
	sourceErr := errors.New("row lock timeout")

	_, _, err := m.GetOrFetch(context.Background(), "k", func(ctx context.Context) (any, error) {
		return nil, sourceErr
	}, time.Minute, 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, sourceErr, "the original failure cause must stay visible")
}

func TestGetOrFetchAs_TypedRoundTrip(t *testing.T) {
	m := newTestManager(t, NewMemoryStore(100, 0, nil))

	article, err := GetOrFetchAs(context.Background(), m, "typed", func(ctx context.Context) (*articleStub, error) {
		return &articleStub{Title: "typed read"}, nil
	}, time.Minute, 0)
	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, "typed read", article.Title)

	missing, err := GetOrFetchAs(context.Background(), m, "gone", func(ctx context.Context) (*articleStub, error) {
		return nil, nil
	}, time.Minute, 0)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetOrFetch_CorruptEntryIsDiscarded(t *testing.T) {
	store := NewMemoryStore(100, 0, nil)
	m := newTestManager(t, store)
	require.NoError(t, store.Set(context.Background(), "k", []byte("{not json"), time.Minute))

	var calls atomic.Int64
	raw, found, err := m.GetOrFetch(context.Background(), "k", countingFetcher(&articleStub{Title: "fixed"}, &calls), time.Minute, 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"title":"fixed"}`, string(raw))
	assert.Equal(t, int64(1), calls.Load())
}

func TestWarmUp_CountsSuccesses(t *testing.T) {
	m := newTestManager(t, NewMemoryStore(100, 0, nil))

	result := m.WarmUp(context.Background(), []string{"1", "2", "3", "4"}, func(ctx context.Context, id string) error {
		if id == "3" {
			return errors.New("gone")
		}
		return nil
	}, 2)

	assert.Equal(t, 4, result.Attempted)
	assert.Equal(t, 3, result.Succeeded)
}

func TestWarmUp_CancelledContextCountsOnlyDispatched(t *testing.T) {
	m := newTestManager(t, NewMemoryStore(100, 0, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int64
	result := m.WarmUp(ctx, []string{"1", "2", "3"}, func(ctx context.Context, id string) error {
		calls.Add(1)
		return nil
	}, 2)

	assert.Equal(t, 0, result.Attempted, "IDs never handed to a worker are not attempted")
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, int64(0), calls.Load())
}

func TestEnvelope_WholeValueReplace(t *testing.T) {
	// The stored payload is a single JSON document; a write replaces all of
	// it, so a reader can never observe a partially updated entry.
	staleAt := time.Now().Add(time.Minute).UTC()
	env := envelope{Value: json.RawMessage(`{"title":"x"}`), StoredAt: time.Now().UTC(), StaleAt: &staleAt}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.JSONEq(t, `{"title":"x"}`, string(decoded.Value))
	require.NotNil(t, decoded.StaleAt)
	assert.True(t, decoded.StaleAt.Equal(staleAt))
}
