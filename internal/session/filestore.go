package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps values in a JSON file, one object per server origin:
//
//	{"http://localhost:8080": {"token": "...", "userId": "42"}}
//
// It is meant for machines without a usable keyring (CI, containers).
type FileStore struct {
	mu     sync.Mutex
	path   string
	origin string
}

// NewFileStore creates a FileStore backed by path
func NewFileStore(path, origin string) *FileStore {
	return &FileStore{path: path, origin: origin}
}

type fileContents map[string]map[string]string

func (f *FileStore) load() (fileContents, error) {
	// If the file doesn't exist, start empty
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return fileContents{}, nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	contents := fileContents{}
	if len(data) == 0 {
		return contents, nil
	}
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("failed to parse storage file: %w", err)
	}
	return contents, nil
}

func (f *FileStore) save(contents fileContents) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	// Tokens live here, keep the file private
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	return nil
}

func (f *FileStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	contents, err := f.load()
	if err != nil {
		return "", err
	}
	return contents[f.origin][key], nil
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	contents, err := f.load()
	if err != nil {
		return err
	}
	if contents[f.origin] == nil {
		contents[f.origin] = map[string]string{}
	}
	contents[f.origin][key] = value
	return f.save(contents)
}

func (f *FileStore) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	contents, err := f.load()
	if err != nil {
		return err
	}
	values, ok := contents[f.origin]
	if !ok {
		return nil
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		delete(contents, f.origin)
	}
	return f.save(contents)
}
