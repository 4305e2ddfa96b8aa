// Package dedupe tracks the deduplicated match-id corpus.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Set records seen match ids so corpus insertion stays idempotent across
// players, workers, and process restarts.
type Set interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already present. This is the only
	// mutation path, so the uniqueness invariant holds under a worker pool.
	SeenAndRecord(ctx context.Context, id string) bool

	// Seed loads previously persisted ids, typically from the corpus file
	// at startup. Already-present ids are ignored.
	Seed(ctx context.Context, ids []string)

	// Forget removes ids, rolling back entries whose durable append
	// failed. Size must only ever count persisted ids. Absent ids are
	// ignored.
	Forget(ctx context.Context, ids []string)

	Size() int64
}

// inMemorySet implements Set with a mutex-guarded map. The corpus is a
// durability boundary, not a cache: entries are never evicted.
type inMemorySet struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// NewInMemorySet creates a new in-memory set with configuration options.
func NewInMemorySet(opts ...Option) Set {
	s := &inMemorySet{}

	cfg := settings{initialCapacity: defaultInitialCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.seen = make(map[string]struct{}, cfg.initialCapacity)
	return s
}

func (s *inMemorySet) SeenAndRecord(_ context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return true
	}
	s.seen[id] = struct{}{}
	s.size.Add(1)
	return false
}

func (s *inMemorySet) Seed(_ context.Context, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.size.Add(1)
	}
}

func (s *inMemorySet) Forget(_ context.Context, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.seen[id]; !ok {
			continue
		}
		delete(s.seen, id)
		s.size.Add(-1)
	}
}

func (s *inMemorySet) Size() int64 {
	return s.size.Load()
}
