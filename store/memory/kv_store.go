// Package memory implements store.KVStore as a process-local map. It backs
// single-instance deployments without Redis and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/NomadCrew/school-dashboard/store"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// KVStore is a mutex-guarded map with lazy expiry.
type KVStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

var _ store.KVStore = (*KVStore)(nil)

// NewKVStore creates an empty store using the wall clock.
func NewKVStore() *KVStore {
	return NewKVStoreWithClock(time.Now)
}

// NewKVStoreWithClock creates an empty store that reads time from now.
func NewKVStoreWithClock(now func() time.Time) *KVStore {
	return &KVStore{
		entries: make(map[string]entry),
		now:     now,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, found := s.entries[key]
	s.mu.RUnlock()

	if !found {
		return nil, store.ErrNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the key.
		if cur, ok := s.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, store.ErrNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := entry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len reports the number of stored keys, expired or not.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
