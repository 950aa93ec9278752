package memory

import (
	"context"
	"sync"

	"github.com/sig-0/ethdeals/deals"
)

// Store keeps the latest completed run in memory.
// Nothing is persisted across process restarts
type Store struct {
	latest *deals.Result

	mu sync.RWMutex
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SaveResult(_ context.Context, result *deals.Result) error {
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	return nil
}

func (s *Store) LatestResult(_ context.Context) (*deals.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latest, nil
}
