package service

import (
	"sync"
	"time"

	"carprice/internal/model"

	"github.com/google/uuid"
)

// SessionStore maps opaque cookie tokens to logged-in users
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions live for ttl.
// A zero ttl keeps sessions until logout.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]model.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session for username and returns its token
func (s *SessionStore) Create(username string) model.Session {
	now := s.now()
	session := model.Session{
		Token:     uuid.NewString(),
		Username:  username,
		CreatedAt: now,
	}
	if s.ttl > 0 {
		session.ExpiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()
	return session
}

// Lookup returns the live session for token. Expired sessions are removed.
func (s *SessionStore) Lookup(token string) (model.Session, bool) {
	if token == "" {
		return model.Session{}, false
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return model.Session{}, false
	}

	if session.Expired(s.now()) {
		s.Delete(token)
		return model.Session{}, false
	}
	return session, true
}

// Delete ends a session; unknown tokens are ignored
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
