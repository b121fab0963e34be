package session

import "errors"

var (
	// ErrExpired is returned when the stored identity has expired and was removed.
	ErrExpired = errors.New("session has expired")
	// ErrNotFound is returned when no complete, readable identity is stored.
	ErrNotFound = errors.New("session not found")
	// ErrIncompleteIdentity is returned when saving an identity with a missing field.
	ErrIncompleteIdentity = errors.New("session identity requires user id, token and expiry")
	// ErrTokenDecode is logged when the stored token cannot be decrypted. Load reports ErrNotFound instead.
	ErrTokenDecode = errors.New("failed to decode stored token")
	// ErrSaveSession is returned when saving to the backend fails.
	ErrSaveSession = errors.New("failed to save session")
	// ErrLoadSession is returned when reading from the backend fails.
	ErrLoadSession = errors.New("failed to load session")
	// ErrDeleteSession is returned when removing entries from the backend fails.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrInvalidExpiry is returned when an expiry value cannot be parsed.
	ErrInvalidExpiry = errors.New("invalid session expiry")
	// ErrUnknownDriver is returned for an unsupported SESSION_DRIVER value.
	ErrUnknownDriver = errors.New("unknown session driver")
)
