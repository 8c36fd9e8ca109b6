// Package testutil provides testing utilities for the aggregation engine.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/xivtools/lodestone-aggregator/pkg/cache"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-memory cache.Store for tests. It honors TTLs and
// can simulate store outages via GetErr/SetErr.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry

	// GetErr, when set, is returned by every Get.
	GetErr error

	// SetErr, when set, is returned by every Set.
	SetErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry)}
}

// Get implements cache.Store.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.GetErr != nil {
		return nil, s.GetErr
	}

	entry, ok := s.entries[key]
	if !ok || (!entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)) {
		return nil, cache.ErrCacheMiss
	}
	return entry.value, nil
}

// Set implements cache.Store.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SetErr != nil {
		return s.SetErr
	}

	entry := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

// Keys returns all stored keys.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Has reports whether key is present.
func (s *MemoryStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[key]
	return ok
}

// Expire forces the entry for key to be expired.
func (s *MemoryStore) Expire(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		entry.expiresAt = time.Now().Add(-time.Second)
		s.entries[key] = entry
	}
}
