package transport

import "errors"

var (
	// ErrInvalidReply indicates a decrypted reply is not a JSON document.
	ErrInvalidReply = errors.New("decrypted reply is not valid JSON")

	// ErrUnknownPolicy indicates an unrecognized encryption failure policy.
	ErrUnknownPolicy = errors.New("unknown encryption failure policy")

	// ErrInvalidBaseURL indicates the configured API base URL cannot be used.
	ErrInvalidBaseURL = errors.New("invalid API base URL")

	// ErrUnsuccessfulReply indicates the API answered with an error reply.
	// The concrete error is an *APIError.
	ErrUnsuccessfulReply = errors.New("API returned an error reply")
)
