package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Cipher seals and opens envelopes under a key derived from a shared secret.
// The key is derived once, on first use. Cipher is safe for concurrent use.
type Cipher struct {
	secret string
	kdf    KDF

	once sync.Once
	key  Key
}

// CipherOption configures a Cipher.
type CipherOption func(*Cipher)

// WithKDF selects the key derivation mode. Default is KDFLegacy.
func WithKDF(kdf KDF) CipherOption {
	return func(c *Cipher) {
		if kdf != "" {
			c.kdf = kdf
		}
	}
}

// NewCipher creates a Cipher for secret. An empty secret is accepted here and
// reported as ErrMissingSecret by every operation.
func NewCipher(secret string, opts ...CipherOption) *Cipher {
	c := &Cipher{
		secret: secret,
		kdf:    KDFLegacy,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the shared secret is set.
func (c *Cipher) Configured() bool {
	return c != nil && c.secret != ""
}

// Key returns the derived key, or ErrMissingSecret.
func (c *Cipher) Key() (Key, error) {
	if !c.Configured() {
		return nil, ErrMissingSecret
	}
	c.once.Do(func() {
		c.key = c.kdf.Derive(c.secret)
	})
	return c.key, nil
}

// Seal encrypts plaintext into an envelope.
func (c *Cipher) Seal(plaintext []byte) (string, error) {
	key, err := c.Key()
	if err != nil {
		return "", err
	}
	return Encrypt(plaintext, key)
}

// Open decrypts an envelope.
func (c *Cipher) Open(sealed string) ([]byte, error) {
	key, err := c.Key()
	if err != nil {
		return nil, err
	}
	return Decrypt(sealed, key)
}

// SealJSON serializes v and encrypts it. Values that serialize to nothing are rejected
// with ErrInvalidPayload.
func (c *Cipher) SealJSON(v any) (string, error) {
	key, err := c.Key()
	if err != nil {
		return "", err
	}
	return EncryptJSON(v, key)
}

// OpenJSON decrypts an envelope and parses the plaintext into dst.
func (c *Cipher) OpenJSON(sealed string, dst any) error {
	key, err := c.Key()
	if err != nil {
		return err
	}
	return DecryptJSON(sealed, key, dst)
}

// String implements fmt.Stringer without revealing the secret.
func (c *Cipher) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("envelope.Cipher{kdf: %s, secret: [REDACTED]}", c.kdf)
}

// GoString implements fmt.GoStringer.
func (c *Cipher) GoString() string {
	return c.String()
}

// EncryptJSON serializes v to JSON and encrypts it under key.
// json.RawMessage and []byte values are taken as already serialized.
func EncryptJSON(v any, key Key) (string, error) {
	if v == nil {
		return "", errors.Join(ErrEncryptionFailed, ErrInvalidPayload)
	}

	var data []byte
	switch p := v.(type) {
	case json.RawMessage:
		data = p
	case []byte:
		data = p
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return "", errors.Join(ErrEncryptionFailed, err)
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return "", errors.Join(ErrEncryptionFailed, ErrInvalidPayload)
	}

	return Encrypt(data, key)
}

// DecryptJSON decrypts an envelope and unmarshals it into dst.
// A plaintext that is not valid JSON is reported as ErrDecryptionFailed.
func DecryptJSON(sealed string, key Key, dst any) error {
	plain, err := Decrypt(sealed, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plain, dst); err != nil {
		return errors.Join(ErrDecryptionFailed, err)
	}
	return nil
}
