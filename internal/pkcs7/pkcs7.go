// Package pkcs7 implements PKCS#7 block padding as used by the CBC ciphers of this module.
package pkcs7

import (
	"bytes"
	"crypto/subtle"
	"errors"
)

// ErrInvalidPadding is returned when the trailing padding bytes are malformed.
var ErrInvalidPadding = errors.New("invalid pkcs7 padding")

// Pad appends PKCS#7 padding so the result is a multiple of blockSize.
// A full block of padding is added when data is already aligned.
func Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append(make([]byte, 0, len(data)+n), data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

// Unpad strips PKCS#7 padding. The padding bytes are compared in constant time.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidPadding
	}

	pad := data[len(data)-n:]
	if subtle.ConstantTimeCompare(pad, bytes.Repeat([]byte{byte(n)}, n)) != 1 {
		return nil, ErrInvalidPadding
	}

	return data[:len(data)-n], nil
}
