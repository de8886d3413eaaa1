package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/wannazaw/classroom-client/internal/model"
)

// Storage persists a session across restarts. Load reports ok=false when no
// session is stored, which callers treat as the anonymous state.
type Storage interface {
	Save(s Session) error
	Load() (sess Session, ok bool, err error)
	Clear() error
}

// persistedSession is the on-disk layout. The three keys mirror the shape
// the web client keeps in local storage: token, refreshToken and the
// serialized user profile.
type persistedSession struct {
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken"`
	User         model.User `json:"user"`
}

// FileStorage keeps the session in a JSON file, readable only by the owner.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := json.MarshalIndent(persistedSession{
		Token:        s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         s.User,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (f *FileStorage) Load() (Session, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("read session file: %w", err)
	}

	var stored persistedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return Session{}, false, fmt.Errorf("decode session file: %w", err)
	}
	if stored.Token == "" {
		return Session{}, false, nil
	}

	return Session{
		User:         stored.User,
		AccessToken:  stored.Token,
		RefreshToken: stored.RefreshToken,
	}, true, nil
}

func (f *FileStorage) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStorage keeps the session in memory only. Used in tests and anywhere
// persistence across restarts is not wanted.
type MemoryStorage struct {
	mu     sync.Mutex
	stored Session
	ok     bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = s
	m.ok = true
	return nil
}

func (m *MemoryStorage) Load() (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored, m.ok, nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = Session{}
	m.ok = false
	return nil
}
