// internal/adapters/out/localstore/token_store.go
package localstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenKey is the storage key for the bearer token attached to mutating
// catalog API calls.
const TokenKey = "firebaseToken"

var ErrEmptyKey = errors.New("localstore: key is empty")

// TokenStore is durable client-local key/value storage, one JSON file with
// 0600 permissions. It plays the role the browser's localStorage plays for
// the web client.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

// NewTokenStore stores values at path. Empty path falls back to
// <user config dir>/sweetshop/credentials.json.
func NewTokenStore(path string) (*TokenStore, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		p = filepath.Join(dir, "sweetshop", "credentials.json")
	}
	return &TokenStore{path: p}, nil
}

// Get returns the stored value for key, or "" when absent. A missing file is
// not an error: first run has nothing stored yet.
func (s *TokenStore) Get(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Set stores value under key.
func (s *TokenStore) Set(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

// Delete removes key. Absent key is a no-op.
func (s *TokenStore) Delete(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.write(values)
}

func (s *TokenStore) read() (map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values := map[string]string{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &values); err != nil {
			// Corrupt store: start over rather than locking the user out.
			return map[string]string{}, nil
		}
	}
	return values, nil
}

func (s *TokenStore) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}
