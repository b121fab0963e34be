// Package passphrase encrypts short strings with a passphrase in the OpenSSL "Salted__"
// format: AES-256-CBC with PKCS#7 padding, key and IV derived by EVP_BytesToKey (MD5,
// one iteration) from the passphrase and an 8-byte random salt. The output is
// base64("Salted__" || salt || ciphertext), readable by `openssl enc -aes-256-cbc -md md5`
// and by browser libraries that default to the same scheme.
//
// The format carries no authentication tag. It is meant for values at rest in a client
// store, such as a bearer token, not for data exchanged with a server.
package passphrase

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/dmitrymomot/sealedapi/internal/pkcs7"
)

const (
	saltSize = 8
	keySize  = 32
	ivSize   = aes.BlockSize
)

var saltedPrefix = []byte("Salted__")

var (
	// ErrEmptyPassphrase is returned when the passphrase is empty.
	ErrEmptyPassphrase = errors.New("passphrase is empty")
	// ErrInvalidFormat indicates the input is not a salted OpenSSL blob.
	ErrInvalidFormat = errors.New("invalid passphrase ciphertext format")
	// ErrDecryptionFailed indicates a wrong passphrase or corrupted ciphertext.
	ErrDecryptionFailed = errors.New("passphrase decryption failed")
)

// Encrypt encrypts plaintext with passphrase.
func Encrypt(plaintext, passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrEmptyPassphrase
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key, iv := bytesToKey([]byte(passphrase), salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded := pkcs7.Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(saltedPrefix)+saltSize+len(padded))
	n := copy(out, saltedPrefix)
	n += copy(out[n:], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[n:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. An empty or non-UTF-8 result is reported as
// ErrDecryptionFailed, since a wrong passphrase usually yields garbage.
func Decrypt(encoded, passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrEmptyPassphrase
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}

	header := len(saltedPrefix) + saltSize
	if len(raw) < header+aes.BlockSize || !bytes.HasPrefix(raw, saltedPrefix) || (len(raw)-header)%aes.BlockSize != 0 {
		return "", ErrInvalidFormat
	}

	salt, ciphertext := raw[len(saltedPrefix):header], raw[header:]
	key, iv := bytesToKey([]byte(passphrase), salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, err = pkcs7.Unpad(plain, aes.BlockSize)
	if err != nil || len(plain) == 0 || !utf8.Valid(plain) {
		return "", ErrDecryptionFailed
	}

	return string(plain), nil
}

// bytesToKey is OpenSSL's EVP_BytesToKey with MD5 and a single iteration:
// D_i = MD5(D_{i-1} || passphrase || salt), concatenated until key and IV are filled.
func bytesToKey(passphrase, salt []byte) (key, iv []byte) {
	var (
		out  = make([]byte, 0, keySize+ivSize+md5.Size)
		prev []byte
	)
	for len(out) < keySize+ivSize {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		out = append(out, prev...)
	}
	return out[:keySize], out[keySize : keySize+ivSize]
}
