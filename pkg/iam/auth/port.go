package auth

import (
	"context"

	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// TokenService defines the contract for JWT issuance and verification.
type TokenService interface {
	GenerateAccessToken(userID kernel.UserID, appID kernel.AppID, email string) (string, error)
	GenerateRefreshToken(userID kernel.UserID, appID kernel.AppID, sessionID kernel.SessionID) (string, error)
	VerifyToken(token string) (*TokenClaims, error)
}

// APIKeyValidator validates a raw API key and resolves the calling
// application. Implemented by the apikey service; declared here so the
// middleware does not depend on that package.
type APIKeyValidator interface {
	ValidateKey(ctx context.Context, rawKey string) (kernel.AppID, error)
}
