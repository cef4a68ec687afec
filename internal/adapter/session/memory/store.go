// Package memory holds interview sessions in a process-local map.
//
// Sessions do not survive a restart. Concurrent requests for different
// sessions are independent; interleaved writes to the same session are
// last-writer-wins, matching the service's accepted concurrency model.
package memory

import (
	"fmt"
	"sync"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/observability"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

// Store implements domain.SessionStore.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{sessions: make(map[string]domain.Session)}
}

// Get returns the session with the given id.
func (s *Store) Get(_ domain.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: session %q", domain.ErrNotFound, id)
	}
	return sess, nil
}

// Upsert stores the session, replacing any prior state.
func (s *Store) Upsert(_ domain.Context, sess domain.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("%w: empty session id", domain.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; !ok {
		observability.SessionsActive.Inc()
	}
	s.sessions[sess.ID] = sess
	return nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(_ domain.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		observability.SessionsActive.Dec()
		delete(s.sessions, id)
	}
	return nil
}
