package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"github.com/dmitrymomot/sealedapi/internal/pkcs7"
)

// IVSize is the size of the random IV prefixed to every envelope.
const IVSize = aes.BlockSize

// Encrypt seals plaintext under key and returns base64(iv || ciphertext).
func Encrypt(plaintext []byte, key Key) (string, error) {
	block, err := newBlock(key)
	if err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	padded := pkcs7.Pad(plaintext, aes.BlockSize)
	out := make([]byte, IVSize+len(padded))

	iv := out[:IVSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[IVSize:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens an envelope produced by Encrypt. All failures wrap ErrDecryptionFailed.
func Decrypt(sealed string, key Key) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, ErrInvalidEnvelope, err)
	}

	// At least the IV and one cipher block.
	if len(raw) < IVSize+aes.BlockSize || (len(raw)-IVSize)%aes.BlockSize != 0 {
		return nil, errors.Join(ErrDecryptionFailed, ErrInvalidEnvelope)
	}

	iv, ciphertext := raw[:IVSize], raw[IVSize:]
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, err = pkcs7.Unpad(plain, aes.BlockSize)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	return plain, nil
}

func newBlock(key Key) (cipher.Block, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKey
	}
	return aes.NewCipher(key)
}
