// Package store holds the shared collections every crawler process coordinates
// through: the frontier queue, the fetched-page queue and the visited set.
//
// Implementations must be safe for concurrent use by any number of callers
// without external locking. A Pop that times out returns ok=false and a nil
// error; a backing store that cannot be reached returns an error satisfying
// errors.Is(err, ErrUnavailable). Callers must never read the latter as "empty".
package store

import (
	"context"
	"time"

	"depth-crawler/internal/models"
)

// FrontierQueue holds links waiting to be fetched.
type FrontierQueue interface {
	Push(ctx context.Context, link models.Link) error
	Pop(ctx context.Context, timeout time.Duration) (models.Link, bool, error)
	Clear(ctx context.Context) error
}

// FetchedQueue holds fetched pages waiting for link extraction.
type FetchedQueue interface {
	Push(ctx context.Context, page models.Page) error
	Pop(ctx context.Context, timeout time.Duration) (models.Page, bool, error)
	Clear(ctx context.Context) error
}

// VisitedSet records normalized URLs already claimed for fetching.
// AddIfNotPresent is the single serialization point for fetch claims.
type VisitedSet interface {
	AddIfNotPresent(ctx context.Context, url string) (bool, error)
	IsPresent(ctx context.Context, url string) (bool, error)
	Clear(ctx context.Context) error
}

var (
	_ FrontierQueue = (*MemoryQueue[models.Link])(nil)
	_ FetchedQueue  = (*MemoryQueue[models.Page])(nil)
	_ VisitedSet    = (*MemoryVisitedSet)(nil)
	_ FrontierQueue = (*RedisQueue[models.Link])(nil)
	_ FetchedQueue  = (*RedisQueue[models.Page])(nil)
	_ VisitedSet    = (*RedisVisitedSet)(nil)
	_ StatusStore   = (*MemoryStatusStore)(nil)
	_ StatusStore   = (*RedisStatusStore)(nil)
)
