package session

import (
	"context"
	"maps"
	"sync"
)

// MemoryBackend keeps entries in process memory. Useful for tests and short-lived tools.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]string)}
}

// Get implements Backend.
func (b *MemoryBackend) Get(_ context.Context, keys ...string) (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := b.entries[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Set implements Backend.
func (b *MemoryBackend) Set(_ context.Context, entries map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	maps.Copy(b.entries, entries)
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, k := range keys {
		delete(b.entries, k)
	}
	return nil
}

// Len returns the number of stored entries.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
