package catalog

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	surveys []Survey
}

// NewMemoryRepository constructs an in-memory survey store.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.surveys), nil
}

func (r *memoryRepository) Insert(_ context.Context, surveys []Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surveys = append(r.surveys, surveys...)
	return nil
}

func (r *memoryRepository) ListActive(_ context.Context) ([]Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make([]Survey, 0, len(r.surveys))
	for _, s := range r.surveys {
		if s.Active {
			active = append(active, s)
		}
	}
	return active, nil
}

func (r *memoryRepository) GetActive(_ context.Context, id string) (Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.surveys {
		if s.ID == id && s.Active {
			return s, nil
		}
	}
	return Survey{}, errSurveyNotFound
}
