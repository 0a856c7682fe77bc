package cryptox

import (
	"net/http"

	"github.com/vishesh711/Auth-SDK/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CRYPTO")

var (
	CodeInvalidEncryptionKey = ErrRegistry.Register("INVALID_ENCRYPTION_KEY", errx.TypeConfiguration, http.StatusInternalServerError, "Encryption key must decode to exactly 32 bytes")
	CodeDecryptionFailed     = ErrRegistry.Register("DECRYPTION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to decrypt secret")
	CodeTokenGeneration      = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate secure token")
)

func ErrInvalidEncryptionKey() *errx.Error {
	return ErrRegistry.New(CodeInvalidEncryptionKey)
}

func ErrDecryptionFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeDecryptionFailed, cause)
}

func ErrTokenGeneration(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeTokenGeneration, cause)
}
