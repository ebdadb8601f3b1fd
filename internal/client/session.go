package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// sessionFileName is the fixed key the bearer token is stored under.
const sessionFileName = "session.json"

// SessionStore owns the bearer token for the lifetime of a session. At
// most one token is held at a time; presence of a token means the
// client considers the user authenticated.
type SessionStore interface {
	Save(token string) error
	Read() (string, bool)
	Clear() error
}

// sessionFile is the on-disk format.
type sessionFile struct {
	AccessToken string `json:"access_token"`
}

// FileSessionStore persists the token as a JSON file under the user's
// home directory so the session survives process restarts.
type FileSessionStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSessionStore stores the session under ~/.stratforge.
func NewFileSessionStore() (*FileSessionStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewFileSessionStoreAt(filepath.Join(home, ".stratforge", sessionFileName)), nil
}

// NewFileSessionStoreAt stores the session at an explicit path.
func NewFileSessionStoreAt(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// Save writes the token, replacing any previous one.
func (s *FileSessionStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sessionFile{AccessToken: token}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Read returns the stored token, or false when none is held.
func (s *FileSessionStore) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil || f.AccessToken == "" {
		return "", false
	}
	return f.AccessToken, true
}

// Clear removes the stored token. Clearing an empty store is a no-op.
func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemorySessionStore holds the token in process memory. Used by tests
// and by callers that do not want a session to outlive the process.
type MemorySessionStore struct {
	mu    sync.Mutex
	token string
}

// NewMemorySessionStore constructs an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemorySessionStore) Read() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
