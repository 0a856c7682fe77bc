package apikey

import (
	"net/http"
	"strings"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// ============================================================================
// Entity
// ============================================================================

// KeyPrefix marks every issued key so leaked keys are greppable.
const KeyPrefix = "dk_"

// displayPrefixLen is how many characters of the key are kept in
// plaintext for display ("dk_AbCd...").
const displayPrefixLen = 10

// APIKey authenticates an application backend. Only the SHA-256 hash
// of the key is stored; the plaintext is shown once at creation.
type APIKey struct {
	ID            string       `db:"id" json:"id"`
	ApplicationID string       `db:"application_id" json:"application_id"`
	AppID         kernel.AppID `db:"app_id" json:"app_id"`
	KeyHash       string       `db:"key_hash" json:"-"`
	KeyPrefix     string       `db:"key_prefix" json:"key_prefix"`
	Name          string       `db:"name" json:"name"`
	IsActive      bool         `db:"is_active" json:"is_active"`
	LastUsedAt    *time.Time   `db:"last_used_at" json:"last_used_at,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// Revoke deactivates the key. Revoked keys are kept for audit.
func (k *APIKey) Revoke() {
	k.IsActive = false
	k.UpdatedAt = time.Now().UTC()
}

// APIKeyDTO is the client-facing shape, without the hash.
type APIKeyDTO struct {
	ID         string     `json:"id"`
	KeyPrefix  string     `json:"key_prefix"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToDTO converts the entity to its client-facing shape.
func (k *APIKey) ToDTO() APIKeyDTO {
	return APIKeyDTO{
		ID:         k.ID,
		KeyPrefix:  k.KeyPrefix,
		Name:       k.Name,
		IsActive:   k.IsActive,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}

// ============================================================================
// Key Generation
// ============================================================================

// GeneratedKey is a freshly minted key: the plaintext to hand out once
// and the digest and display prefix to persist.
type GeneratedKey struct {
	Key       string
	KeyHash   string
	KeyPrefix string
}

// GenerateKey mints a new API key.
func GenerateKey() (*GeneratedKey, error) {
	token, err := cryptox.GenerateSecureToken(32)
	if err != nil {
		return nil, err
	}
	key := KeyPrefix + token
	return &GeneratedKey{
		Key:       key,
		KeyHash:   cryptox.HashToken(key),
		KeyPrefix: key[:displayPrefixLen] + "...",
	}, nil
}

// HasValidFormat reports whether a presented key even looks like one
// of ours, letting validation skip a database hit for junk input.
func HasValidFormat(key string) bool {
	return strings.HasPrefix(key, KeyPrefix) && len(key) > displayPrefixLen
}

// ============================================================================
// DTOs
// ============================================================================

// CreateAPIKeyRequest is the portal payload for minting a key.
type CreateAPIKeyRequest struct {
	Name string `json:"name"`
}

// CreateAPIKeyResponse carries the one-time plaintext key.
type CreateAPIKeyResponse struct {
	APIKey  APIKeyDTO `json:"api_key"`
	Key     string    `json:"key"`
	Message string    `json:"message"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("APIKEY")

var (
	CodeAPIKeyNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "API key not found")
	CodeAPIKeyInvalid  = ErrRegistry.Register("INVALID", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid API key")
	CodeAPIKeyRevoked  = ErrRegistry.Register("REVOKED", errx.TypeAuthorization, http.StatusUnauthorized, "API key has been revoked")
)

// Helper functions
func ErrAPIKeyNotFound() *errx.Error {
	return ErrRegistry.New(CodeAPIKeyNotFound)
}

func ErrAPIKeyInvalid() *errx.Error {
	return ErrRegistry.New(CodeAPIKeyInvalid)
}

func ErrAPIKeyRevoked() *errx.Error {
	return ErrRegistry.New(CodeAPIKeyRevoked)
}
