package session

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrNoToken is returned when a session without an access token is pushed
// into the store.
var ErrNoToken = errors.New("session has no access token")

// Store owns the current session. It is a two-state machine, anonymous or
// authenticated, and the only component allowed to write the persisted
// session. Views and the transport read it; login, logout and the
// unauthorized policy move it between states.
type Store struct {
	mu          sync.RWMutex
	storage     Storage
	logger      *zap.Logger
	current     Session
	active      bool
	subscribers []func(Session, bool)
}

func NewStore(storage Storage, logger *zap.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
	}
}

// Restore moves the store to the authenticated state from persisted storage,
// without any network call. The restored token is trusted as-is; if it has
// expired server-side the first request will come back 401 and clear it.
func (s *Store) Restore() (bool, error) {
	stored, ok, err := s.storage.Load()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	s.current = stored
	s.active = true
	s.mu.Unlock()

	s.logger.Debug("Session restored",
		zap.Int64("user_id", stored.User.ID),
		zap.String("email", stored.User.Email),
	)
	s.notify(stored, true)
	return true, nil
}

// Establish persists the given session and moves the store to the
// authenticated state. Called after a successful login.
func (s *Store) Establish(sess Session) error {
	if sess.AccessToken == "" {
		return ErrNoToken
	}
	if err := s.storage.Save(sess); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = sess
	s.active = true
	s.mu.Unlock()

	s.logger.Info("Session established",
		zap.Int64("user_id", sess.User.ID),
		zap.String("email", sess.User.Email),
	)
	s.notify(sess, true)
	return nil
}

// Clear wipes persisted storage and moves the store back to anonymous.
// Called on logout and by the unauthorized policy.
func (s *Store) Clear() error {
	if err := s.storage.Clear(); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = Session{}
	s.active = false
	s.mu.Unlock()

	s.logger.Info("Session cleared")
	s.notify(Session{}, false)
	return nil
}

// Current returns the session and whether the store is authenticated.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.active
}

// Token returns the current access token, or "" when anonymous. Satisfies
// the transport's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return ""
	}
	return s.current.AccessToken
}

// Subscribe registers a callback invoked after every state change with the
// new session and whether the store is authenticated.
func (s *Store) Subscribe(fn func(Session, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(sess Session, active bool) {
	s.mu.RLock()
	subscribers := make([]func(Session, bool), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(sess, active)
	}
}
