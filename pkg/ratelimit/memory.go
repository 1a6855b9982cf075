package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepEvery = 512

// MemoryStore is an in-process counter store with the same contract as the
// Redis client's IncrWithTTL. It backs the quote-form rate limiter when no
// Redis URL is configured (single-instance deployments). Buckets are swept
// opportunistically so the map does not grow without bound.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	ops     int
	now     func() time.Time
}

type bucket struct {
	count   int64
	resetAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreAt(time.Now)
}

// NewMemoryStoreAt builds a store with a custom clock. Tests use it to
// control window expiry.
func NewMemoryStoreAt(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     now,
	}
}

// IncrWithTTL increments the counter for key, starting a fresh window with
// the supplied TTL when the key is absent or its window has expired.
func (s *MemoryStore) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.ops++
	if s.ops%sweepEvery == 0 {
		s.sweepLocked(now)
	}

	b, ok := s.buckets[key]
	if !ok || !b.resetAt.After(now) {
		b = &bucket{resetAt: now.Add(ttl)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, b := range s.buckets {
		if !b.resetAt.After(now) {
			delete(s.buckets, key)
		}
	}
}
