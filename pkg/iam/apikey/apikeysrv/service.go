package apikeysrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
	"github.com/vishesh711/Auth-SDK/pkg/iam/apikey"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
	"github.com/vishesh711/Auth-SDK/pkg/logx"
)

// APIKeyService manages and validates application API keys.
type APIKeyService struct {
	keyRepo apikey.APIKeyRepository
	appRepo application.ApplicationRepository
}

func NewAPIKeyService(keyRepo apikey.APIKeyRepository, appRepo application.ApplicationRepository) *APIKeyService {
	return &APIKeyService{keyRepo: keyRepo, appRepo: appRepo}
}

// CreateAPIKey mints a key for one of the developer's applications.
// The plaintext is returned once and never recoverable afterwards.
func (s *APIKeyService) CreateAPIKey(
	ctx context.Context,
	developerID kernel.DeveloperID,
	applicationID string,
	req apikey.CreateAPIKeyRequest,
) (*apikey.CreateAPIKeyResponse, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID, developerID)
	if err != nil {
		return nil, application.ErrApplicationNotFound()
	}

	generated, err := apikey.GenerateKey()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "default"
	}

	now := time.Now().UTC()
	key := apikey.APIKey{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		AppID:         app.AppID,
		KeyHash:       generated.KeyHash,
		KeyPrefix:     generated.KeyPrefix,
		Name:          name,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.keyRepo.Save(ctx, key); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"api_key_id":     key.ID,
		"application_id": app.ID,
	}).Info("API key created")

	return &apikey.CreateAPIKeyResponse{
		APIKey:  key.ToDTO(),
		Key:     generated.Key,
		Message: "Save this key securely. It will not be shown again.",
	}, nil
}

// ListAPIKeys lists the keys of one of the developer's applications.
func (s *APIKeyService) ListAPIKeys(ctx context.Context, developerID kernel.DeveloperID, applicationID string) ([]apikey.APIKeyDTO, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID, developerID)
	if err != nil {
		return nil, application.ErrApplicationNotFound()
	}

	keys, err := s.keyRepo.FindByApplication(ctx, app.ID)
	if err != nil {
		return nil, err
	}

	dtos := make([]apikey.APIKeyDTO, 0, len(keys))
	for _, key := range keys {
		dtos = append(dtos, key.ToDTO())
	}
	return dtos, nil
}

// RevokeAPIKey deactivates a key. The row is kept for audit.
func (s *APIKeyService) RevokeAPIKey(ctx context.Context, developerID kernel.DeveloperID, applicationID, keyID string) error {
	app, err := s.appRepo.FindByID(ctx, applicationID, developerID)
	if err != nil {
		return application.ErrApplicationNotFound()
	}

	key, err := s.keyRepo.FindByID(ctx, keyID, app.ID)
	if err != nil {
		return apikey.ErrAPIKeyNotFound()
	}

	key.Revoke()
	return s.keyRepo.Save(ctx, *key)
}

// ValidateKey authenticates a raw API key and resolves the calling
// application's public app_id. Implements auth.APIKeyValidator.
func (s *APIKeyService) ValidateKey(ctx context.Context, rawKey string) (kernel.AppID, error) {
	if !apikey.HasValidFormat(rawKey) {
		return "", apikey.ErrAPIKeyInvalid()
	}

	key, err := s.keyRepo.FindByHash(ctx, cryptox.HashToken(rawKey))
	if err != nil {
		return "", apikey.ErrAPIKeyInvalid()
	}
	if !key.IsActive {
		return "", apikey.ErrAPIKeyRevoked()
	}

	s.touchLastUsed(key.ID)

	return key.AppID, nil
}

// touchLastUsed records key usage off the request path. Failures are
// logged and dropped; usage telemetry never fails a request.
func (s *APIKeyService) touchLastUsed(keyID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.keyRepo.UpdateLastUsed(ctx, keyID); err != nil {
			logx.WithError(err).WithField("api_key_id", keyID).Warn("Failed to update API key last_used_at")
		}
	}()
}
