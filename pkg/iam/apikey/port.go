package apikey

import "context"

// APIKeyRepository defines the contract for API key persistence.
type APIKeyRepository interface {
	Save(ctx context.Context, key APIKey) error
	FindByID(ctx context.Context, id, applicationID string) (*APIKey, error)
	FindByHash(ctx context.Context, keyHash string) (*APIKey, error)
	FindByApplication(ctx context.Context, applicationID string) ([]*APIKey, error)
	UpdateLastUsed(ctx context.Context, id string) error
}
