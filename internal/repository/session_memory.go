package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/pizza-service/internal/auth"
)

// MemorySessionStore is a process-local session store for development and tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]int64
}

// NewMemorySessionStore returns an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]int64)}
}

var _ auth.SessionStore = (*MemorySessionStore)(nil)

func (s *MemorySessionStore) Record(_ context.Context, token string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[auth.SessionKey(token)] = userID
	return nil
}

func (s *MemorySessionStore) IsActive(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[auth.SessionKey(token)]
	return ok, nil
}

func (s *MemorySessionStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, auth.SessionKey(token))
	return nil
}

// Len reports how many sessions are live.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
