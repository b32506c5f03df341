package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/setanarut/wrapstudio/editor"
	"github.com/setanarut/wrapstudio/internal/logging"
)

var errSessionNotFound = errors.New("session not found")

// session serializes access to one editor. lastUsed is guarded by the
// store lock.
type session struct {
	mu       sync.Mutex
	ed       *editor.Editor
	lastUsed time.Time
}

// Store keeps editing sessions in memory. Sessions idle for longer than
// the idle limit are dropped whenever a new session is created.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	opt      editor.Options
	idle     time.Duration
	now      func() time.Time
}

// NewStore returns an empty store. idle <= 0 keeps sessions until they
// are deleted.
func NewStore(opt editor.Options, idle time.Duration) *Store {
	return &Store{sessions: make(map[string]*session), opt: opt, idle: idle, now: time.Now}
}

func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[id] = &session{ed: editor.New(s.opt), lastUsed: s.now()}
	return id
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *Store) sweepLocked() int {
	if s.idle <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idle)
	n := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		logging.Logger().Info("expired idle sessions", "count", n, "idle", s.idle)
	}
	return n
}

// With runs fn holding the session lock and marks the session as used.
func (s *Store) With(id string, fn func(ed *editor.Editor) error) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastUsed = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.ed)
}
