package identity

import (
	"context"
	"sync"
	"time"
)

// InMemorySessionStore implements SessionStore for single-instance runs and
// tests. Deployments with more than one API replica use the Redis store.
type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	identityID string
	expiresAt  time.Time
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

// Save also drops every expired session, so sessions that are never
// presented again do not accumulate.
func (s *InMemorySessionStore) Save(ctx context.Context, sessionID, identityID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.sessions[sessionID] = memorySession{identityID: identityID, expiresAt: now.Add(ttl)}
	return nil
}

func (s *InMemorySessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return "", ErrSessionNotFound
	}
	return sess.identityID, nil
}

func (s *InMemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
