package auth

import (
	"net/http"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// ============================================================================
// Token Types
// ============================================================================

// Token type discriminator embedded in every JWT as the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the decoded, verified content of a JWT.
//
// Access tokens carry UserID, AppID and Email. Refresh tokens carry
// UserID, AppID and SessionID. Portal tokens are access tokens whose
// AppID is the reserved portal identifier and whose subject is a
// developer id.
type TokenClaims struct {
	UserID    kernel.UserID    `json:"user_id"`
	AppID     kernel.AppID     `json:"app_id"`
	Email     string           `json:"email,omitempty"`
	SessionID kernel.SessionID `json:"session_id,omitempty"`
	TokenType string           `json:"type"`
	IssuedAt  time.Time        `json:"iat"`
	ExpiresAt time.Time        `json:"exp"`
}

// IsAccess reports whether the claims belong to an access token.
func (c *TokenClaims) IsAccess() bool {
	return c.TokenType == TokenTypeAccess
}

// IsRefresh reports whether the claims belong to a refresh token.
func (c *TokenClaims) IsRefresh() bool {
	return c.TokenType == TokenTypeRefresh
}

// IsPortal reports whether the claims belong to a developer portal token.
func (c *TokenClaims) IsPortal() bool {
	return c.AppID == kernel.PortalAppID
}

// DeveloperID returns the subject as a developer id. Only meaningful
// for portal tokens.
func (c *TokenClaims) DeveloperID() kernel.DeveloperID {
	return kernel.NewDeveloperID(c.UserID.String())
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidToken          = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeWrongTokenType        = ErrRegistry.Register("WRONG_TOKEN_TYPE", errx.TypeAuthorization, http.StatusUnauthorized, "Wrong token type")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
	CodeInvalidKeyMaterial    = ErrRegistry.Register("INVALID_KEY_MATERIAL", errx.TypeConfiguration, http.StatusInternalServerError, "Invalid JWT signing key material")
	CodeMissingAPIKey         = ErrRegistry.Register("MISSING_API_KEY", errx.TypeAuthorization, http.StatusUnauthorized, "Missing API key")
)

// Helper functions
func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrWrongTokenType() *errx.Error {
	return ErrRegistry.New(CodeWrongTokenType)
}

func ErrTokenGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenGenerationFailed)
}

func ErrInvalidKeyMaterial() *errx.Error {
	return ErrRegistry.New(CodeInvalidKeyMaterial)
}

func ErrMissingAPIKey() *errx.Error {
	return ErrRegistry.New(CodeMissingAPIKey)
}
