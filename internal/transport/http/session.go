package http

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "salesdash_session"

// SessionStore keeps authenticated sessions in memory for the process
// lifetime. Sessions expire after a fixed TTL; expired entries are pruned
// lazily on access.
type SessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]time.Time
}

// NewSessionStore creates a session store with the given TTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
}

// Create registers a new session and returns its token.
func (s *SessionStore) Create() string {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = s.now().Add(s.ttl)
	s.mu.Unlock()
	return token
}

// Valid reports whether the token belongs to a live session.
func (s *SessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.sessions[token]
	if !ok {
		return false
	}
	if s.now().After(expiresAt) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Destroy removes a session.
func (s *SessionStore) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
