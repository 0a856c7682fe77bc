package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vishesh711/Auth-SDK/pkg/iam/auth"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

func generateKeyPair(t *testing.T) (privB64, pubB64 string, pub *rsa.PublicKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal private key: %v", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return base64.StdEncoding.EncodeToString(privPEM),
		base64.StdEncoding.EncodeToString(pubPEM),
		&key.PublicKey
}

func newTestService(t *testing.T) *auth.JWTService {
	t.Helper()
	privB64, pubB64, _ := generateKeyPair(t)
	svc, err := auth.NewJWTService(privB64, pubB64, 0, 0, "")
	if err != nil {
		t.Fatalf("NewJWTService failed: %v", err)
	}
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.GenerateAccessToken(kernel.NewUserID("user-1"), kernel.NewAppID("app-1"), "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if !claims.IsAccess() {
		t.Errorf("expected access token type, got %q", claims.TokenType)
	}
	if claims.UserID.String() != "user-1" {
		t.Errorf("unexpected user id %q", claims.UserID)
	}
	if claims.AppID.String() != "app-1" {
		t.Errorf("unexpected app id %q", claims.AppID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
	if claims.SessionID.String() != "" {
		t.Errorf("access token must not carry a session id, got %q", claims.SessionID)
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl < 14*time.Minute || ttl > 16*time.Minute {
		t.Errorf("expected ~15m lifetime, got %v", ttl)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.GenerateRefreshToken(kernel.NewUserID("user-1"), kernel.NewAppID("app-1"), kernel.NewSessionID("sess-1"))
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if !claims.IsRefresh() {
		t.Errorf("expected refresh token type, got %q", claims.TokenType)
	}
	if claims.SessionID.String() != "sess-1" {
		t.Errorf("unexpected session id %q", claims.SessionID)
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl < 6*24*time.Hour || ttl > 8*24*time.Hour {
		t.Errorf("expected ~7d lifetime, got %v", ttl)
	}
}

func TestPortalTokenClaims(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.GenerateAccessToken(kernel.NewUserID("dev-1"), kernel.PortalAppID, "dev@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if !claims.IsPortal() {
		t.Error("expected portal claims")
	}
	if claims.DeveloperID().String() != "dev-1" {
		t.Errorf("unexpected developer id %q", claims.DeveloperID())
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	privB64, pubB64, _ := generateKeyPair(t)
	svc, err := auth.NewJWTService(privB64, pubB64, time.Nanosecond, time.Nanosecond, "devauth")
	if err != nil {
		t.Fatalf("NewJWTService failed: %v", err)
	}

	token, err := svc.GenerateAccessToken(kernel.NewUserID("user-1"), kernel.NewAppID("app-1"), "u@e.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := svc.VerifyToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.GenerateAccessToken(kernel.NewUserID("user-1"), kernel.NewAppID("app-1"), "u@e.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	tampered := token[:len(token)-4] + "xxxx"
	if _, err := svc.VerifyToken(tampered); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	svc := newTestService(t)
	other := newTestService(t)

	token, err := other.GenerateAccessToken(kernel.NewUserID("user-1"), kernel.NewAppID("app-1"), "u@e.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := svc.VerifyToken(token); err == nil {
		t.Error("expected token signed with a different key to be rejected")
	}
}

func TestVerifyRejectsHMACAlgorithm(t *testing.T) {
	svc := newTestService(t)

	hmacToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "user-1",
		"app_id": "app-1",
		"type":   "access",
		"iss":    "devauth",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := hmacToken.SignedString([]byte("not-the-rsa-key"))
	if err != nil {
		t.Fatalf("failed to sign HMAC token: %v", err)
	}

	if _, err := svc.VerifyToken(signed); err == nil {
		t.Error("expected HMAC-signed token to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.VerifyToken(tok); err == nil {
			t.Errorf("expected %q to be rejected", tok)
		}
	}
}

func TestDecodeUnverified(t *testing.T) {
	svc := newTestService(t)
	other := newTestService(t)

	token, err := other.GenerateRefreshToken(kernel.NewUserID("user-1"), kernel.NewAppID("app-1"), kernel.NewSessionID("sess-1"))
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	// Decodes even though svc does not hold the signing key.
	claims, err := svc.DecodeUnverified(token)
	if err != nil {
		t.Fatalf("DecodeUnverified failed: %v", err)
	}
	if claims.SessionID.String() != "sess-1" || !claims.IsRefresh() {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := svc.DecodeUnverified("garbage"); err == nil {
		t.Error("expected malformed token to be rejected")
	}
}

func TestNewJWTServiceRejectsBadKeys(t *testing.T) {
	if _, err := auth.NewJWTService("not-base64!!", "", 0, 0, ""); err == nil {
		t.Error("expected bad base64 to be rejected")
	}
	if _, err := auth.NewJWTService(base64.StdEncoding.EncodeToString([]byte("not a pem")), "", 0, 0, ""); err == nil {
		t.Error("expected non-PEM key to be rejected")
	}
}

func TestPublicKeyDerivedFromPrivate(t *testing.T) {
	privB64, _, _ := generateKeyPair(t)
	svc, err := auth.NewJWTService(privB64, "", 0, 0, "")
	if err != nil {
		t.Fatalf("NewJWTService failed: %v", err)
	}

	token, err := svc.GenerateAccessToken(kernel.NewUserID("user-1"), kernel.NewAppID("app-1"), "u@e.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if _, err := svc.VerifyToken(token); err != nil {
		t.Errorf("VerifyToken failed with derived public key: %v", err)
	}
}

func TestVerifyTokenRequiresExpiry(t *testing.T) {
	privB64, pubB64, _ := generateKeyPair(t)
	svc, err := auth.NewJWTService(privB64, pubB64, 0, 0, "")
	if err != nil {
		t.Fatalf("NewJWTService failed: %v", err)
	}

	pemBytes, err := base64.StdEncoding.DecodeString(privB64)
	if err != nil {
		t.Fatalf("failed to decode key: %v", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		t.Fatalf("failed to parse key: %v", err)
	}

	// Signed with the service's own key but missing the exp claim.
	eternal := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":    "user-1",
		"app_id": "app-1",
		"type":   "access",
		"iss":    "devauth",
		"iat":    time.Now().Unix(),
	})
	signed, err := eternal.SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := svc.VerifyToken(signed); err == nil {
		t.Error("expected a token without an expiry to be rejected")
	}
}
