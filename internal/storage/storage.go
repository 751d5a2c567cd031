package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
)

type session struct {
	controller *studio.Controller
	lastSeen   time.Time
}

// SessionStore holds one studio per open page. Nothing is written to disk:
// a session ends when the page ends it or when the sweeper expires it.
type SessionStore struct {
	sessions map[string]*session
	mu       sync.RWMutex
	now      func() time.Time
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Create registers a controller under a fresh session ID.
func (s *SessionStore) Create(ctrl *studio.Controller) string {
	id := uuid.NewString()
	s.Set(id, ctrl)
	return id
}

// Get returns the session's controller and marks it as recently used.
func (s *SessionStore) Get(sessionID string) (*studio.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.controller, true
}

func (s *SessionStore) Set(sessionID string, ctrl *studio.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = &session{controller: ctrl, lastSeen: s.now()}
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Delete removes a session and reports whether it existed.
func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return exists
}

// Touch marks a session as recently used without returning it.
func (s *SessionStore) Touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, exists := s.sessions[sessionID]; exists {
		sess.lastSeen = s.now()
	}
}

// Sweep drops sessions idle for longer than ttl and returns their IDs.
// Sessions for which active reports true are kept and touched; active may be nil.
func (s *SessionStore) Sweep(ttl time.Duration, active func(sessionID string) bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-ttl)
	var expired []string
	for id, sess := range s.sessions {
		if active != nil && active(id) {
			sess.lastSeen = now
			continue
		}
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	return expired
}
