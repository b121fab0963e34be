// Package session keeps the authenticated identity of the client between API calls.
//
// An Identity is the user ID, the bearer token and the token expiry returned by a
// successful login. Manager persists it in a Backend as three independent entries
// (id, token, expiryDate). The token entry is encrypted at rest with the shared secret
// used as a passphrase (see pkg/passphrase); the other two entries are stored as plain
// text.
//
// # Core Components
//
//   - Identity: user ID, bearer token and expiry, always complete or absent
//   - Store: the save/load/clear capability consumed by the transport pipeline
//   - Manager: the Store implementation, safe for concurrent use
//   - Backend: key-value persistence (memory, JSON file, Redis)
//
// # Basic Usage
//
//	backend, err := session.NewFileBackend("~/.config/sealedapi/session.json")
//	if err != nil {
//		return err
//	}
//
//	store := session.NewManager(backend, cfg.SecretKey)
//
//	// After a successful login
//	err = store.Save(ctx, session.Identity{
//		UserID:    "u1",
//		Token:     "tok1",
//		ExpiresAt: expiry,
//	})
//
//	// Before each request
//	id, err := store.Load(ctx)
//	switch {
//	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
//		// anonymous call
//	case err != nil:
//		return err
//	}
//
//	// On logout
//	err = store.Clear(ctx)
//
// # Load Semantics
//
// Load fails closed. A token entry that cannot be decrypted, a missing entry or an
// unparsable expiry all read as ErrNotFound; the last two also remove whatever was
// left, so the store never holds a partial identity. An identity whose expiry has
// passed is removed and reported as ErrExpired.
//
// # Concurrency
//
// Manager serializes its operations with a mutex. Calls racing each other complete in
// some order and the last writer wins; no ordering between independent API calls is
// implied.
package session
