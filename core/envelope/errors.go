package envelope

import "errors"

var (
	// ErrMissingSecret indicates the shared secret was not configured.
	// It is a configuration error and must not be retried.
	ErrMissingSecret = errors.New("shared secret is not configured")

	// ErrEncryptionFailed indicates a payload could not be sealed into an envelope.
	ErrEncryptionFailed = errors.New("envelope encryption failed")

	// ErrDecryptionFailed indicates an envelope could not be opened: malformed base64,
	// input too short to hold an IV, invalid padding or a wrong key.
	ErrDecryptionFailed = errors.New("envelope decryption failed")

	// ErrInvalidEnvelope indicates the envelope bytes do not have the iv||ciphertext layout.
	ErrInvalidEnvelope = errors.New("invalid envelope format")

	// ErrInvalidPayload indicates the payload serializes to nothing.
	ErrInvalidPayload = errors.New("invalid payload: must be a non-empty document")

	// ErrInvalidKey indicates the key is not a valid AES key length.
	ErrInvalidKey = errors.New("invalid envelope key length")
)
