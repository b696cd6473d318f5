package cache

import (
	"container/list"
	"context"
	"path"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryStore is an in-memory Store with LRU eviction and per-item TTL.
// It backs tests and single-instance deployments where running Redis is
// not worth the operational cost. Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	items       map[string]*memoryItem
	lruList     *list.List
	maxItems    int
	maxMemory   int64
	currentSize int64

	hits      int64
	misses    int64
	evictions int64

	logger *zap.Logger
	now    func() time.Time
}

// memoryItem is a single cached entry
type memoryItem struct {
	key        string
	value      []byte
	size       int64
	expiry     time.Time
	lruElement *list.Element
}

// NewMemoryStore creates an in-memory store bounded by item count and
// total byte size.
func NewMemoryStore(maxItems int, maxMemory int64, logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		items:     make(map[string]*memoryItem),
		lruList:   list.New(),
		maxItems:  maxItems,
		maxMemory: maxMemory,
		logger:    logger,
		now:       time.Now,
	}
}

// Get retrieves a value, honoring expiry
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[key]
	if !exists {
		s.misses++
		return nil, ErrNotFound
	}

	if !item.expiry.IsZero() && s.now().After(item.expiry) {
		s.removeItem(item)
		s.misses++
		return nil, ErrNotFound
	}

	s.lruList.MoveToFront(item.lruElement)
	s.hits++

	// Copy so callers cannot mutate the cached bytes
	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, nil
}

// Set stores a value with the given TTL, evicting LRU entries to make room
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	itemSize := int64(len(key) + len(value))
	if s.maxMemory > 0 && itemSize > s.maxMemory {
		s.logger.Warn("item too large for cache",
			zap.String("key", key),
			zap.Int64("size", itemSize),
			zap.Int64("max_memory", s.maxMemory),
		)
		return nil // skip caching, not an error
	}

	if existing, exists := s.items[key]; exists {
		s.removeItem(existing)
	}

	for s.needsEviction(itemSize) && s.lruList.Len() > 0 {
		oldest := s.lruList.Back()
		if oldest == nil {
			break
		}
		s.removeItem(oldest.Value.(*memoryItem))
		s.evictions++
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	item := &memoryItem{
		key:   key,
		value: stored,
		size:  itemSize,
	}
	if ttl > 0 {
		item.expiry = s.now().Add(ttl)
	}
	item.lruElement = s.lruList.PushFront(item)
	s.items[key] = item
	s.currentSize += itemSize
	return nil
}

// Delete removes the given keys
func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if item, exists := s.items[key]; exists {
			s.removeItem(item)
		}
	}
	return nil
}

// DeleteByPattern removes every key matching the glob pattern
func (s *MemoryStore) DeleteByPattern(ctx context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, item := range s.items {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return err
		}
		if matched {
			s.removeItem(item)
		}
	}
	return nil
}

// Stats reports hit/miss/eviction counters and the current footprint
func (s *MemoryStore) Stats() (hits, misses, evictions int64, items int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses, s.evictions, len(s.items)
}

// needsEviction reports whether adding itemSize bytes requires evicting.
// Caller must hold the lock.
func (s *MemoryStore) needsEviction(itemSize int64) bool {
	if s.maxItems > 0 && len(s.items) >= s.maxItems {
		return true
	}
	return s.maxMemory > 0 && s.currentSize+itemSize > s.maxMemory
}

// removeItem unlinks an entry. Caller must hold the lock.
func (s *MemoryStore) removeItem(item *memoryItem) {
	delete(s.items, item.key)
	s.lruList.Remove(item.lruElement)
	s.currentSize -= item.size
}
