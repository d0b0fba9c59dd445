package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
)

// MemoryStore keeps runs in memory
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*models.Run
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]*models.Run),
	}
}

func (s *MemoryStore) Save(_ context.Context, run *models.Run) error {
	if err := validateRun(run); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, run.ID)
	}
	runCopy := *run
	s.runs[run.ID] = &runCopy
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	runCopy := *run
	return &runCopy, nil
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]*models.Run, error) {
	limit, offset = normalizePage(limit, offset)

	s.mu.RLock()
	all := make([]*models.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runCopy := *run
		all = append(all, &runCopy)
	}
	s.mu.RUnlock()

	sortNewestFirst(all)
	if offset >= len(all) {
		return []*models.Run{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}
