// Package envelope implements the payload encryption used on the wire between the client
// and the API: a symmetric key derived from a shared secret, and a self-contained
// envelope holding a random IV followed by the AES-CBC ciphertext.
//
// # Key Derivation
//
// DeriveKey hashes the shared secret with SHA-256 and keeps the first 16 bytes of the
// digest, producing an AES-128 key. The truncation is part of the wire format: the
// counterpart service derives the same key, so changing it breaks interoperability.
// A 32-byte HKDF-SHA256 key is available through KDFHKDF for deployments where both
// sides have agreed on it.
//
//	key := envelope.DeriveKey(secret)
//
// # Envelope Format
//
// Encrypt produces base64(iv || ciphertext) where iv is 16 random bytes and the
// ciphertext is AES-CBC with PKCS#7 padding. Every call uses a fresh IV, so encrypting
// the same plaintext twice yields different envelopes.
//
//	sealed, err := envelope.Encrypt([]byte(`{"email":"a@b.com"}`), key)
//	if err != nil {
//		return err
//	}
//
//	plain, err := envelope.Decrypt(sealed, key)
//	if errors.Is(err, envelope.ErrDecryptionFailed) {
//		// malformed base64, short input, wrong key or bad padding
//	}
//
// # Cipher
//
// Cipher binds a shared secret and a key derivation mode together and derives the key
// once, on first use. A Cipher built from an empty secret reports ErrMissingSecret from
// every operation rather than at construction, so a misconfigured process fails on its
// first encrypted call.
//
//	c := envelope.NewCipher(cfg.SecretKey)
//	sealed, err := c.SealJSON(map[string]any{"page": 0, "size": 10})
//
// # Wire Types
//
// RequestEnvelope and ResponseEnvelope describe the JSON documents that carry envelopes:
//
//	{"encryptedPayload": "<envelope>"}   // request body
//	{"response": "<envelope>"}           // response body
package envelope
