package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	"github.com/vishesh711/Auth-SDK/pkg/errx"
)

const encryptionKeySize = 32

// SecretCipher encrypts and decrypts application secrets at rest with
// AES-256-GCM. Unlike passwords these values must be recoverable in
// plaintext, hence encryption rather than hashing. The ciphertext is
// self-contained: nonce plus sealed payload, base64-encoded, so nothing
// beyond the key is needed to decrypt later.
type SecretCipher struct {
	aead cipher.AEAD
}

// NewSecretCipher builds a cipher from a base64-encoded key that must
// decode to exactly 32 bytes.
func NewSecretCipher(keyBase64 string) (*SecretCipher, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, ErrInvalidEncryptionKey().WithDetail("reason", "key is not valid base64")
	}
	if len(key) != encryptionKeySize {
		return nil, ErrInvalidEncryptionKey().WithDetail("decoded_length", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errx.Wrap(err, "failed to initialize cipher", errx.TypeConfiguration)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errx.Wrap(err, "failed to initialize GCM", errx.TypeConfiguration)
	}

	return &SecretCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce. Two calls on the
// same input produce different ciphertext.
func (c *SecretCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errx.Wrap(err, "failed to generate nonce", errx.TypeInternal)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a ciphertext produced by Encrypt. Tampered or
// truncated input fails authentication and returns an error.
func (c *SecretCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed(err)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrDecryptionFailed(nil).WithDetail("reason", "ciphertext too short")
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed(err)
	}
	return string(plaintext), nil
}
