package api

import "errors"

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidDateRange   = errors.New("custom date range needs a start and an end, start not after end")
	ErrUnknownSortField   = errors.New("unknown sort field")
	ErrInvalidPage        = errors.New("page and page size must not be negative")
)
