package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// Opaque bearer tokens (API keys, email verification tokens, password
// reset tokens) are high-entropy random values, so storage hashing uses
// plain SHA-256 rather than an adaptive algorithm: there is nothing for
// an attacker to brute-force offline.

// GenerateSecureToken returns a URL-safe random token backed by
// crypto/rand. byteLength is the entropy in bytes before encoding.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", ErrTokenGeneration(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyTokenHash compares a presented token with a stored digest in
// constant time.
func VerifyTokenHash(token, storedHash string) bool {
	computed := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// GenerateAPIKey returns a fresh API key and the digest to persist.
// Only the digest is ever stored; the plaintext is shown to the caller
// once and cannot be recovered afterwards.
func GenerateAPIKey() (plaintext, hash string, err error) {
	plaintext, err = GenerateSecureToken(32)
	if err != nil {
		return "", "", err
	}
	return plaintext, HashToken(plaintext), nil
}
