package memory

import (
	"sync"

	"github.com/PabloGalante/folio-agent/internal/app/chat"
	"github.com/PabloGalante/folio-agent/internal/domain"
)

// SessionStore keeps live conversations in process memory. Nothing survives
// a restart, which is the intended lifetime of a transcript.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*chat.Controller
	limit    int
}

// NewSessionStore creates a store holding at most limit sessions (0 = no limit).
func NewSessionStore(limit int) *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*chat.Controller),
		limit:    limit,
	}
}

func (s *SessionStore) CreateSession(c *chat.Controller) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[c.ID()]; exists {
		return domain.ErrSessionExists
	}
	if s.limit > 0 && len(s.sessions) >= s.limit {
		return domain.ErrTooManySessions
	}

	s.sessions[c.ID()] = c
	return nil
}

func (s *SessionStore) GetSession(id domain.SessionID) (*chat.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return c, nil
}

// DeleteSession removes and returns the session.
func (s *SessionStore) DeleteSession(id domain.SessionID) (*chat.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return c, nil
}

func (s *SessionStore) ListSessions() []*chat.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*chat.Controller, 0, len(s.sessions))
	for _, c := range s.sessions {
		out = append(out, c)
	}
	return out
}
