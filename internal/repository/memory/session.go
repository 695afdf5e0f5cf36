// Package memory provides the default in-process store implementations.
package memory

import (
	"context"
	"sync"
	"time"

	"quickride/internal/domain"
)

// SessionStore is an in-memory session store with optional TTL expiry.
// A TTL of zero keeps sessions for the process lifetime.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	locks    map[string]*sync.Mutex
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a session store. ttl is the idle time after which
// a session is recreated fresh; zero disables expiry.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		locks:    make(map[string]*sync.Mutex),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetOrCreate returns a copy of the session for the key, creating a fresh
// one at the root menu if absent or idle past the TTL.
func (s *SessionStore) GetOrCreate(ctx context.Context, key, phone string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[key]
	if ok && s.expired(session) {
		ok = false
	}
	if !ok {
		session = domain.NewSession(key, phone)
		session.LastTouched = s.now()
		s.sessions[key] = session
	}

	copy := *session
	return &copy, nil
}

// Save stores the session state.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *session
	copy.LastTouched = s.now()
	s.sessions[session.ID] = &copy
	return nil
}

// Lock acquires the per-key dialog lock and returns its release func.
func (s *SessionStore) Lock(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

// Sweep removes expired sessions and returns how many were dropped. It is a
// no-op when expiry is disabled.
func (s *SessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, key)
			delete(s.locks, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(session *domain.Session) bool {
	return s.ttl > 0 && s.now().Sub(session.LastTouched) > s.ttl
}
