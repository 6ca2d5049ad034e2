package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// filePermissions restricts the store file to the owning user.
const filePermissions = 0o600

// FileStore persists the key-value map as a single JSON file on disk.
// Every mutation rewrites the whole file; the map is small (a handful
// of preference keys), so this stays cheap.
type FileStore struct {
	// path is the filesystem location of the JSON file.
	path string
	// mu serializes access to the file.
	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store that reads/writes JSON at the provided path.
// A missing file reads as an empty store.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: filepath.Clean(path),
	}
}

// Put implements Store.
func (s *FileStore) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}

	values[key] = value

	return s.write(values)
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key, def string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}

	value, ok := values[key]
	if !ok {
		return def, nil
	}

	return value, nil
}

// Remove implements Store.
func (s *FileStore) Remove(_ context.Context, key string) error {
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

func (s *FileStore) read() (map[string]string, error) {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("read store file: %w", err)
	}

	values := map[string]string{}
	if err = json.Unmarshal(contents, &values); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}

	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if err = os.WriteFile(s.path, data, filePermissions); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}

	return nil
}
