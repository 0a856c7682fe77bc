package cryptox

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the bcrypt work factor used when none is configured.
	DefaultBcryptCost = 12

	// MinPasswordLength is the only strength rule enforced by default.
	MinPasswordLength = 8
)

// hasComplexity requires lower, upper, digit and symbol. It is only
// applied when the hasher is configured with RequireComplexity; the
// current product decision is to enforce length alone.
func hasComplexity(password string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// PasswordHasher hashes and verifies end-user passwords with bcrypt.
type PasswordHasher struct {
	cost              int
	requireComplexity bool
}

// NewPasswordHasher creates a hasher with the given work factor. A cost
// outside bcrypt's valid range falls back to the default.
func NewPasswordHasher(cost int, requireComplexity bool) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost, requireComplexity: requireComplexity}
}

// Hash generates a salted bcrypt digest of the password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches the stored digest. bcrypt's
// comparison is constant-time over the derived key.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// ValidateStrength checks the password against the configured policy.
// It returns ok plus a human-readable reason when the check fails.
func (h *PasswordHasher) ValidateStrength(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}

	if h.requireComplexity && !hasComplexity(password) {
		return false, "Password must contain an uppercase letter, a lowercase letter, a number, and a symbol"
	}

	return true, ""
}

// DummyDigest is a valid bcrypt digest of a random throwaway value.
// Login verifies against it when the user does not exist, so the
// "unknown email" and "wrong password" paths cost the same.
var DummyDigest = func() string {
	token, err := GenerateSecureToken(32)
	if err != nil {
		token = "devauth-timing-equalizer"
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(token), DefaultBcryptCost)
	if err != nil {
		panic(err)
	}
	return string(digest)
}()
