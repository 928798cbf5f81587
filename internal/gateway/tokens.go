package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenKey is the fixed key the access token is persisted under
const TokenKey = "access_token"

// TokenSource yields the current bearer token, "" when signed out.
// It is consulted on every request so a sign-out takes effect immediately.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to TokenSource
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// StaticToken is a fixed token
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// FileTokenStore persists the token in a small JSON file
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Token reads the file on each call; any read problem means signed out
func (s *FileTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(values[TokenKey])
}

func (s *FileTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		values = map[string]string{}
	}
	values[TokenKey] = token
	return s.write(values)
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		values = map[string]string{}
	}
	delete(values, TokenKey)
	return s.write(values)
}

func (s *FileTokenStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("corrupt token store %s: %w", s.path, err)
	}
	return values, nil
}

func (s *FileTokenStore) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token store: %w", err)
	}
	return nil
}
