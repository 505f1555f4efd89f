package store

import (
	"context"
	"sync"

	"depth-crawler/internal/models"
)

// StatusStore persists crawl run status.
type StatusStore interface {
	SetStatus(ctx context.Context, status models.CrawlStatus) error
	GetStatus(ctx context.Context, runID string) (models.CrawlStatus, bool, error)
}

// MemoryStatusStore keeps run status in process memory.
type MemoryStatusStore struct {
	mu       sync.RWMutex
	statuses map[string]models.CrawlStatus
}

// NewMemoryStatusStore returns an empty in-memory StatusStore.
func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{statuses: make(map[string]models.CrawlStatus)}
}

// SetStatus stores status under its run id.
func (s *MemoryStatusStore) SetStatus(_ context.Context, status models.CrawlStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[status.RunID] = status
	return nil
}

// GetStatus returns the status recorded for runID.
func (s *MemoryStatusStore) GetStatus(_ context.Context, runID string) (models.CrawlStatus, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[runID]
	return status, ok, nil
}
