package memory

import (
	"context"
	"sync"

	"github.com/bnema/yolka/internal/domain"
	"github.com/bnema/yolka/internal/ports"
)

// Store keeps sessions in process memory. Sessions are cloned on the way in
// and out so callers never share a picked slice with the store.
type Store struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]domain.Session
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{sessions: make(map[domain.UserID]domain.Session)}
}

func (s *Store) Get(_ context.Context, userID domain.UserID) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Store) Put(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.UserID] = session.Clone()
	return nil
}

func (s *Store) Clear(_ context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
