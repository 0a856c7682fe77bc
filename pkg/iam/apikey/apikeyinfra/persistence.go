package apikeyinfra

import (
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/iam/apikey"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// apiKeyPersistence mirrors the api_keys table row.
type apiKeyPersistence struct {
	ID            string     `db:"id"`
	ApplicationID string     `db:"application_id"`
	AppID         string     `db:"app_id"`
	KeyHash       string     `db:"key_hash"`
	KeyPrefix     string     `db:"key_prefix"`
	Name          string     `db:"name"`
	IsActive      bool       `db:"is_active"`
	LastUsedAt    *time.Time `db:"last_used_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func toPersistence(key apikey.APIKey) apiKeyPersistence {
	return apiKeyPersistence{
		ID:            key.ID,
		ApplicationID: key.ApplicationID,
		AppID:         key.AppID.String(),
		KeyHash:       key.KeyHash,
		KeyPrefix:     key.KeyPrefix,
		Name:          key.Name,
		IsActive:      key.IsActive,
		LastUsedAt:    key.LastUsedAt,
		CreatedAt:     key.CreatedAt,
		UpdatedAt:     key.UpdatedAt,
	}
}

func toDomain(row apiKeyPersistence) apikey.APIKey {
	return apikey.APIKey{
		ID:            row.ID,
		ApplicationID: row.ApplicationID,
		AppID:         kernel.NewAppID(row.AppID),
		KeyHash:       row.KeyHash,
		KeyPrefix:     row.KeyPrefix,
		Name:          row.Name,
		IsActive:      row.IsActive,
		LastUsedAt:    row.LastUsedAt,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
