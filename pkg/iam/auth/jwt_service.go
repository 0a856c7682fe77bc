package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// JWTService implements TokenService using RS256 signed JWTs. The
// signing keys are PEM blocks delivered base64-encoded so they can
// travel through environment variables intact.
type JWTService struct {
	privateKey      *rsa.PrivateKey
	publicKey       *rsa.PublicKey
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	issuer          string
}

// NewJWTService creates a new JWT service from base64-encoded PEM key
// material. The public key may be empty, in which case it is derived
// from the private key.
func NewJWTService(privateKeyBase64, publicKeyBase64 string, accessTokenTTL, refreshTokenTTL time.Duration, issuer string) (*JWTService, error) {
	if accessTokenTTL == 0 {
		accessTokenTTL = 15 * time.Minute
	}
	if refreshTokenTTL == 0 {
		refreshTokenTTL = 7 * 24 * time.Hour
	}
	if issuer == "" {
		issuer = "devauth"
	}

	privPEM, err := base64.StdEncoding.DecodeString(privateKeyBase64)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidKeyMaterial, err).WithDetail("key", "private")
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidKeyMaterial, err).WithDetail("key", "private")
	}

	publicKey := &privateKey.PublicKey
	if publicKeyBase64 != "" {
		pubPEM, err := base64.StdEncoding.DecodeString(publicKeyBase64)
		if err != nil {
			return nil, ErrRegistry.NewWithCause(CodeInvalidKeyMaterial, err).WithDetail("key", "public")
		}
		publicKey, err = jwt.ParseRSAPublicKeyFromPEM(pubPEM)
		if err != nil {
			return nil, ErrRegistry.NewWithCause(CodeInvalidKeyMaterial, err).WithDetail("key", "public")
		}
	}

	return &JWTService{
		privateKey:      privateKey,
		publicKey:       publicKey,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		issuer:          issuer,
	}, nil
}

// jwtClaims is the wire shape of the custom claims.
type jwtClaims struct {
	AppID     string `json:"app_id"`
	Email     string `json:"email,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a short-lived access token.
func (j *JWTService) GenerateAccessToken(userID kernel.UserID, appID kernel.AppID, email string) (string, error) {
	now := time.Now()

	claims := jwtClaims{
		AppID:     appID.String(),
		Email:     email,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, err := token.SignedString(j.privateKey)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeTokenGenerationFailed, err)
	}
	return tokenString, nil
}

// GenerateRefreshToken issues a long-lived refresh token bound to a session.
func (j *JWTService) GenerateRefreshToken(userID kernel.UserID, appID kernel.AppID, sessionID kernel.SessionID) (string, error) {
	now := time.Now()

	claims := jwtClaims{
		AppID:     appID.String(),
		SessionID: sessionID.String(),
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, err := token.SignedString(j.privateKey)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeTokenGenerationFailed, err)
	}
	return tokenString, nil
}

// VerifyToken validates the signature and expiry and decodes the
// claims. Every failure mode collapses into a single invalid-token
// error so callers cannot distinguish expired from forged tokens.
func (j *JWTService) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.publicKey, nil
	}, jwt.WithIssuer(j.issuer))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken()
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return nil, ErrInvalidToken()
	}
	// A token without an exp claim would never expire; reject it.
	if claims.ExpiresAt == nil {
		return nil, ErrInvalidToken()
	}

	verified := &TokenClaims{
		UserID:    kernel.NewUserID(claims.Subject),
		AppID:     kernel.NewAppID(claims.AppID),
		Email:     claims.Email,
		SessionID: kernel.NewSessionID(claims.SessionID),
		TokenType: claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		verified.IssuedAt = claims.IssuedAt.Time
	}
	return verified, nil
}

// DecodeUnverified decodes claims without checking the signature or
// expiry. Debugging aid only; never make auth decisions with it.
func (j *JWTService) DecodeUnverified(tokenString string) (*TokenClaims, error) {
	claims := &jwtClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken()
	}

	decoded := &TokenClaims{
		UserID:    kernel.NewUserID(claims.Subject),
		AppID:     kernel.NewAppID(claims.AppID),
		Email:     claims.Email,
		SessionID: kernel.NewSessionID(claims.SessionID),
		TokenType: claims.TokenType,
	}
	if claims.IssuedAt != nil {
		decoded.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}
	return decoded, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (j *JWTService) AccessTokenTTL() time.Duration {
	return j.accessTokenTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (j *JWTService) RefreshTokenTTL() time.Duration {
	return j.refreshTokenTTL
}
