package session

import "context"

// Store is the session capability used by the transport pipeline.
// Implementations must handle concurrent access safely.
type Store interface {
	// Save replaces any stored identity.
	Save(ctx context.Context, id Identity) error
	// Load returns the stored identity, ErrNotFound or ErrExpired.
	Load(ctx context.Context) (Identity, error)
	// Clear removes the stored identity. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Backend is the durable key-value store behind a Manager.
// Implementations must handle concurrent access safely.
type Backend interface {
	// Get returns the values of the requested keys; missing keys are absent from the map.
	Get(ctx context.Context, keys ...string) (map[string]string, error)
	// Set writes all entries, overwriting existing values.
	Set(ctx context.Context, entries map[string]string) error
	// Delete removes the keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
