package crawler

import (
	"context"
	"time"

	"depth-crawler/internal/models"
)

// RobotsChecker answers whether a URL may be fetched. Implementations fail open.
type RobotsChecker interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// EdgePublisher receives parent→child links discovered by the extractor.
type EdgePublisher interface {
	PublishEdges(ctx context.Context, edges ...models.Edge) error
}

// Source is the input side of a worker: a queue with a timed, blocking Pop.
type Source[T any] interface {
	Pop(ctx context.Context, timeout time.Duration) (T, bool, error)
}

// Stage handles one item claimed by a worker.
type Stage[T any] func(ctx context.Context, item T) error
