package ideas

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store, used in development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	ideas map[string]*Idea
}

// NewMemoryStore creates an empty in-memory idea store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ideas: make(map[string]*Idea),
	}
}

// Get retrieves an idea by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idea, exists := s.ideas[id]
	if !exists {
		return nil, ErrNotFound
	}
	return copyIdea(idea), nil
}

// List retrieves all ideas, newest first.
func (s *MemoryStore) List(_ context.Context) ([]*Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Idea, 0, len(s.ideas))
	for _, idea := range s.ideas {
		out = append(out, copyIdea(idea))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Create adds a new idea.
func (s *MemoryStore) Create(_ context.Context, idea *Idea) error {
	if err := idea.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ideas[idea.ID]; exists {
		return ErrAlreadyExists
	}

	now := time.Now()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now
	s.ideas[idea.ID] = copyIdea(idea)
	return nil
}

// Update replaces an existing idea, preserving CreatedAt.
func (s *MemoryStore) Update(_ context.Context, idea *Idea) error {
	if err := idea.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.ideas[idea.ID]
	if !exists {
		return ErrNotFound
	}

	idea.CreatedAt = existing.CreatedAt
	idea.UpdatedAt = time.Now()
	s.ideas[idea.ID] = copyIdea(idea)
	return nil
}

// Delete removes an idea by ID.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ideas[id]; !exists {
		return ErrNotFound
	}
	delete(s.ideas, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
