// ABOUTME: Durable key/value storage for the persisted session slice
// ABOUTME: File-backed under the XDG config directory, with an in-memory fallback

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage persists opaque values under string keys. Load returns nil, nil
// when the key has never been saved.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Remove(key string) error
}

// DefaultConfigDir returns the default config directory under XDG_CONFIG_HOME
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dairy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dairy")
}

// FileStorage keeps one JSON file per key in a directory
type FileStorage struct {
	dir string
}

// NewFileStorage creates file storage rooted at dir
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Dir returns the storage directory
func (fs *FileStorage) Dir() string {
	return fs.dir
}

// path maps a key like "persist:auth" to "persist-auth.json"
func (fs *FileStorage) path(key string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '\\':
			return '-'
		}
		return r
	}, key)
	return filepath.Join(fs.dir, name+".json")
}

// Load reads the value stored under key
func (fs *FileStorage) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(fs.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes the value atomically via a temp file in the same directory
func (fs *FileStorage) Save(key string, data []byte) error {
	if err := os.MkdirAll(fs.dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, ".session-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, fs.path(key)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// Remove deletes the value; removing a missing key is not an error
func (fs *FileStorage) Remove(key string) error {
	err := os.Remove(fs.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStorage keeps values for the life of the process
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStorage creates empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Load implements Storage
func (ms *MemoryStorage) Load(key string) ([]byte, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	v, ok := ms.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Save implements Storage
func (ms *MemoryStorage) Save(key string, data []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.data[key] = append([]byte(nil), data...)
	return nil
}

// Remove implements Storage
func (ms *MemoryStorage) Remove(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.data, key)
	return nil
}
