package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	store := NewMemoryStore(10, 0, nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("payload"), time.Minute))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, store.Delete(ctx, "a", "never-existed"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore(10, 0, nil)
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "a", []byte("x"), 60*time.Second))

	_, err := store.Get(ctx, "a")
	require.NoError(t, err, "entry is fresh before the TTL elapses")

	store.now = func() time.Time { return now.Add(61 * time.Second) }
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound, "entry set with TTL t is absent after t seconds")
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(10, 0, nil)
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Set(ctx, "ref", []byte("categories"), 0))

	store.now = func() time.Time { return now.Add(24 * time.Hour) }
	got, err := store.Get(ctx, "ref")
	require.NoError(t, err)
	assert.Equal(t, []byte("categories"), got)
}

func TestMemoryStore_LRUEviction(t *testing.T) {
	store := NewMemoryStore(2, 0, nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), time.Minute))

	// Touch "a" so "b" becomes the eviction candidate
	_, err := store.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "c", []byte("3"), time.Minute))

	_, err = store.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound, "least recently used entry is evicted first")
	_, err = store.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestMemoryStore_DeleteByPattern(t *testing.T) {
	store := NewMemoryStore(100, 0, nil)
	ctx := context.Background()
	keys := NewKeyBuilder()

	require.NoError(t, store.Set(ctx, keys.Meta("42"), []byte("m"), time.Minute))
	require.NoError(t, store.Set(ctx, keys.Content("42"), []byte("c"), time.Minute))
	require.NoError(t, store.Set(ctx, keys.Meta("7"), []byte("other"), time.Minute))

	require.NoError(t, store.DeleteByPattern(ctx, keys.ArticlePattern("42")))

	_, err := store.Get(ctx, keys.Meta("42"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, keys.Content("42"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, keys.Meta("7"))
	assert.NoError(t, err, "unrelated article entries survive")
}

func TestMemoryStore_ValueCopyIsolation(t *testing.T) {
	store := NewMemoryStore(10, 0, nil)
	ctx := context.Background()

	original := []byte("immutable")
	require.NoError(t, store.Set(ctx, "a", original, time.Minute))
	original[0] = 'X'

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), got)

	got[0] = 'Y'
	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), again)
}

func TestMemoryStore_Stats(t *testing.T) {
	store := NewMemoryStore(10, 0, nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	_, _ = store.Get(ctx, "a")
	_, _ = store.Get(ctx, "nope")

	hits, misses, _, items := store.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, items)
}
