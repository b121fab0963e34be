package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileBackend stores entries as a JSON object in a single file readable only by the owner.
// Writes go through a temporary file and a rename.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFileBackend creates a backend persisting to path. A leading "~/" expands to the
// user's home directory. The file is created on the first write.
func NewFileBackend(path string) (*FileBackend, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("session file path is empty")
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return &FileBackend{path: path}, nil
}

// DefaultFilePath returns the per-user session file location.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sealedapi", "session.json"), nil
}

// Path returns the file location.
func (b *FileBackend) Path() string {
	return b.path
}

// Get implements Backend.
func (b *FileBackend) Get(_ context.Context, keys ...string) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	all, err := b.read()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Set implements Backend.
func (b *FileBackend) Set(_ context.Context, entries map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	all, err := b.read()
	if err != nil {
		return err
	}
	for k, v := range entries {
		all[k] = v
	}
	return b.write(all)
}

// Delete implements Backend. The file is removed once it holds no entries.
func (b *FileBackend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	all, err := b.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(all, k)
	}

	if len(all) == 0 {
		if err := os.Remove(b.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return b.write(all)
}

func (b *FileBackend) read() (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}

	all := make(map[string]string)
	if len(strings.TrimSpace(string(data))) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", b.path, err)
	}
	return all, nil
}

func (b *FileBackend) write(all map[string]string) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".session-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.path)
}
