package store

import (
	"context"
	"sync"
	"time"

	"depth-crawler/internal/models"
)

// MemoryQueue is an unbounded in-process FIFO with blocking, timed Pop.
// It backs single-process crawls and tests.
type MemoryQueue[T any] struct {
	mu    sync.Mutex
	items []T
	// ready is closed and replaced on every Push to wake blocked poppers.
	ready chan struct{}
}

// NewMemoryQueue returns an empty queue.
func NewMemoryQueue[T any]() *MemoryQueue[T] {
	return &MemoryQueue[T]{ready: make(chan struct{})}
}

// NewMemoryFrontier returns an in-memory FrontierQueue.
func NewMemoryFrontier() *MemoryQueue[models.Link] {
	return NewMemoryQueue[models.Link]()
}

// NewMemoryFetched returns an in-memory FetchedQueue.
func NewMemoryFetched() *MemoryQueue[models.Page] {
	return NewMemoryQueue[models.Page]()
}

// Push appends item to the tail of the queue.
func (q *MemoryQueue[T]) Push(_ context.Context, item T) error {
	q.mu.Lock()
	q.items = append(q.items, item)
	close(q.ready)
	q.ready = make(chan struct{})
	q.mu.Unlock()
	return nil
}

// Pop removes the head of the queue, waiting up to timeout for one to arrive.
// A non-positive timeout makes Pop non-blocking.
func (q *MemoryQueue[T]) Pop(ctx context.Context, timeout time.Duration) (T, bool, error) {
	var zero T
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items[0] = zero
			q.items = q.items[1:]
			q.mu.Unlock()
			return item, true, nil
		}
		ready := q.ready
		q.mu.Unlock()

		if expired == nil {
			return zero, false, nil
		}
		select {
		case <-ctx.Done():
			return zero, false, ctx.Err()
		case <-expired:
			return zero, false, nil
		case <-ready:
		}
	}
}

// Len reports the number of queued items.
func (q *MemoryQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear drops every queued item.
func (q *MemoryQueue[T]) Clear(_ context.Context) error {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
	return nil
}
