package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/engine"
)

var ErrNotFound = errors.New("session not found")

// Session pairs an engine with the lock that serializes its writers.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu     sync.Mutex
	engine *engine.Engine
}

// Do runs fn with exclusive access to the session's engine.
func (s *Session) Do(fn func(e *engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.engine)
}

// State returns a snapshot of the engine.
func (s *Session) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.State()
}

// Store keeps sessions in memory for the lifetime of the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	opts     []engine.Option
}

// NewStore creates an empty store; opts are passed to every new engine.
func NewStore(opts ...engine.Option) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		opts:     opts,
	}
}

func (s *Store) Create() *Session {
	sess := &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		engine:    engine.New(s.opts...),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return sess, nil
}

func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}

	delete(s.sessions, id)

	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}
