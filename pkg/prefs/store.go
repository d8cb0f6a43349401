package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/harunnryd/nexus/pkg/errorsx"
)

// Preference keys.
const (
	KeyPrivacyMode = "nexus-privacy-mode"
)

// Store is the preference persistence port: get/set string by key.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// FileStore persists preferences as a JSON map on disk. Missing files are
// treated as an empty store.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		values: make(map[string]string),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errorsx.Wrap(err, errorsx.ReasonPrefsIO)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.values); err != nil {
			return nil, errorsx.Wrap(err, errorsx.ReasonPrefsIO)
		}
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonPrefsIO)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errorsx.Wrap(err, errorsx.ReasonPrefsIO)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonPrefsIO)
	}
	return nil
}

// MemoryStore keeps preferences in memory. Used in tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
