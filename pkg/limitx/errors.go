package limitx

import (
	"net/http"

	"github.com/vishesh711/Auth-SDK/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("LIMIT")

var (
	CodeRateLimited   = ErrRegistry.Register("RATE_LIMITED", errx.TypeRateLimit, http.StatusTooManyRequests, "Too many requests")
	CodeAccountLocked = ErrRegistry.Register("ACCOUNT_LOCKED", errx.TypeRateLimit, http.StatusTooManyRequests, "Account locked due to too many failed login attempts. Please try again later.")
	CodeStoreFailure  = ErrRegistry.Register("STORE_FAILURE", errx.TypeInternal, http.StatusInternalServerError, "Counter store unavailable")
)

func ErrRateLimited() *errx.Error {
	return ErrRegistry.New(CodeRateLimited)
}

func ErrAccountLocked() *errx.Error {
	return ErrRegistry.New(CodeAccountLocked)
}

// ErrStoreFailure wraps a Redis round-trip failure. It is internal and
// retryable; callers must never surface it as an auth failure.
func ErrStoreFailure(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStoreFailure, cause)
}
