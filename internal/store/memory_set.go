package store

import (
	"context"
	"sync"
)

// MemoryVisitedSet is an in-process VisitedSet.
type MemoryVisitedSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewMemoryVisitedSet returns an empty set.
func NewMemoryVisitedSet() *MemoryVisitedSet {
	return &MemoryVisitedSet{urls: make(map[string]struct{})}
}

// AddIfNotPresent adds url and reports whether it was newly added.
func (s *MemoryVisitedSet) AddIfNotPresent(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.urls[url]; ok {
		return false, nil
	}
	s.urls[url] = struct{}{}
	return true, nil
}

// IsPresent reports whether url has been claimed.
func (s *MemoryVisitedSet) IsPresent(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.urls[url]
	return ok, nil
}

// Len reports the number of claimed URLs.
func (s *MemoryVisitedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// Clear forgets every claimed URL.
func (s *MemoryVisitedSet) Clear(_ context.Context) error {
	s.mu.Lock()
	s.urls = make(map[string]struct{})
	s.mu.Unlock()
	return nil
}
