package moderation

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jeyphieee/Sentivents-Backend/internal/domain"
)

// MemoryStore is an in-memory ModerationStore for tests and single-node
// development runs. Production deployments use the Redis-backed store so
// moderation state survives restarts and is shared across replicas.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID]domain.ModerationState
}

// NewMemoryStore creates an empty in-memory moderation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[uuid.UUID]domain.ModerationState)}
}

// Get returns the author's moderation state, or the zero state if the
// author has never been moderated.
func (s *MemoryStore) Get(_ context.Context, authorID uuid.UUID) (domain.ModerationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[authorID], nil
}

// Put replaces the author's moderation state.
func (s *MemoryStore) Put(_ context.Context, authorID uuid.UUID, state domain.ModerationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state == (domain.ModerationState{}) {
		delete(s.states, authorID)
		return nil
	}
	s.states[authorID] = state
	return nil
}
