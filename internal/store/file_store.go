package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"book-reader/internal/domain"
)

// Well-known keys shared by the services that persist client state.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refresh_token"
	KeyCurrentUser  = "current_user"
	KeyPreferences  = "reader_settings"
)

// FileStore is a key-value store persisted to a single JSON file. It is
// the process-wide stand-in for browser local storage: credential and
// reader preferences live here with a lifecycle independent of any
// reading session.
type FileStore struct {
	path   string
	logger domain.Logger

	mu     sync.RWMutex
	values map[string]string
}

// NewFileStore loads existing state from path, starting empty if the
// file does not exist yet.
func NewFileStore(path string, logger domain.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		logger: logger,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		// A corrupt state file loses saved preferences and credential,
		// never the ability to start.
		logger.Warn("State file is corrupt, starting empty", "path", path)
		s.values = make(map[string]string)
	}

	return s, nil
}

// Get returns the stored value for key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Set stores the value and writes the file through.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flushLocked()
}

// Delete removes the key and writes the file through.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
