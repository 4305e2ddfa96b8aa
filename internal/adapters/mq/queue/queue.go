// Package queue provides the bounded in-memory work queue feeding the
// stage worker pools.
package queue

import (
	"context"
	"sync"

	"github.com/riftlab/draftcrawl/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 4096
)

// Queue provides non-blocking enqueue and channel-based dequeue semantics
// for work items of type T (roster entries, identities, match refs).
type Queue[T any] interface {
	// Enqueue adds an item. Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, item T) bool

	// Dequeue returns a channel receiving items as they become available.
	// The channel closes when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan T

	// Len returns the current number of queued items.
	Len(ctx context.Context) int

	// Close stops new enqueues; queued items remain consumable.
	Close() error
}

// InMemory implements Queue using a buffered channel.
type InMemory[T any] struct {
	items chan T
	stage string

	mu     sync.RWMutex
	closed bool
}

// NewInMemory creates an in-memory queue with configuration options.
func NewInMemory[T any](opts ...Option) *InMemory[T] {
	cfg := settings{capacity: defaultCapacity, stage: "unnamed"}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &InMemory[T]{
		items: make(chan T, cfg.capacity),
		stage: cfg.stage,
	}
}

// Enqueue adds an item to the queue.
func (q *InMemory[T]) Enqueue(ctx context.Context, item T) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.items <- item:
		metrics.SetQueueDepth(q.stage, len(q.items))
		return true
	case <-ctx.Done():
		return false
	default:
		return false // queue is full
	}
}

// Dequeue returns a channel that receives items until the queue is closed
// and drained or ctx is canceled.
func (q *InMemory[T]) Dequeue(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for item := range q.items {
			select {
			case out <- item:
				metrics.SetQueueDepth(q.stage, len(q.items))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued items.
func (q *InMemory[T]) Len(_ context.Context) int {
	return len(q.items)
}

// Close stops new enqueues. Safe to call more than once.
func (q *InMemory[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}
