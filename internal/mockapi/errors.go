package mockapi

import "errors"

var (
	ErrMissingCipher     = errors.New("mockapi: cipher is required")
	ErrMissingSigningKey = errors.New("mockapi: signing key is required")
	ErrUnauthorized      = errors.New("missing or invalid bearer token")
)
