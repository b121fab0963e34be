package envelope

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// LegacyKeySize is the size of keys produced by DeriveKey.
	LegacyKeySize = 16
	// HKDFKeySize is the size of keys produced by DeriveKeyHKDF.
	HKDFKeySize = 32

	hkdfInfo = "sealedapi envelope key v1"
)

// Key is a derived symmetric key. It never prints its bytes.
type Key []byte

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("envelope.Key{len: %d, bytes: [REDACTED]}", len(k))
}

// GoString implements fmt.GoStringer.
func (k Key) GoString() string {
	return k.String()
}

// KDF selects how a shared secret becomes a Key.
type KDF string

const (
	// KDFLegacy is the wire-compatible derivation: SHA-256 truncated to 16 bytes.
	KDFLegacy KDF = "legacy"
	// KDFHKDF derives a 32-byte key with HKDF-SHA256. Both peers must opt in.
	KDFHKDF KDF = "hkdf"
)

// ParseKDF converts a configuration value into a KDF. Empty selects KDFLegacy.
func ParseKDF(s string) (KDF, error) {
	switch KDF(strings.ToLower(strings.TrimSpace(s))) {
	case "", KDFLegacy:
		return KDFLegacy, nil
	case KDFHKDF:
		return KDFHKDF, nil
	default:
		return "", fmt.Errorf("unknown key derivation %q", s)
	}
}

// Derive derives a key from secret using this mode.
func (m KDF) Derive(secret string) Key {
	if m == KDFHKDF {
		return DeriveKeyHKDF(secret)
	}
	return DeriveKey(secret)
}

// DeriveKey returns the first 16 bytes of SHA-256(secret).
// This equals parsing the first 32 hex characters of the hex digest, which is how the
// counterpart computes it.
func DeriveKey(secret string) Key {
	sum := sha256.Sum256([]byte(secret))
	key := make(Key, LegacyKeySize)
	copy(key, sum[:LegacyKeySize])
	return key
}

// DeriveKeyHKDF returns a 32-byte HKDF-SHA256 key for secret.
func DeriveKeyHKDF(secret string) Key {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	key := make(Key, HKDFKeySize)
	// HKDF-SHA256 can produce up to 255*32 bytes; 32 never fails.
	_, _ = io.ReadFull(r, key)
	return key
}
