package applicationsrv

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
	"github.com/vishesh711/Auth-SDK/pkg/logx"
)

const (
	// appIDBytes yields a 32-character URL-safe public identifier.
	appIDBytes = 24
	// secretBytes yields a 64-character app secret.
	secretBytes = 48
)

// ApplicationService manages registered applications and their secrets.
type ApplicationService struct {
	appRepo application.ApplicationRepository
	cipher  *cryptox.SecretCipher
}

func NewApplicationService(appRepo application.ApplicationRepository, cipher *cryptox.SecretCipher) *ApplicationService {
	return &ApplicationService{appRepo: appRepo, cipher: cipher}
}

// CreateApplication registers an application, generating its public
// app_id and a secret that is returned exactly once in plaintext.
func (s *ApplicationService) CreateApplication(
	ctx context.Context,
	developerID kernel.DeveloperID,
	req application.CreateApplicationRequest,
) (*application.CreateApplicationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, application.ErrInvalidName()
	}
	env := req.Environment
	if env == "" {
		env = application.EnvDevelopment
	}
	if !env.IsValid() {
		return nil, application.ErrInvalidEnvironment()
	}

	appID, err := cryptox.GenerateSecureToken(appIDBytes)
	if err != nil {
		return nil, err
	}
	secret, err := cryptox.GenerateSecureToken(secretBytes)
	if err != nil {
		return nil, err
	}
	encryptedSecret, err := s.cipher.Encrypt(secret)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	app := application.Application{
		ID:              uuid.NewString(),
		AppID:           kernel.NewAppID(appID),
		DeveloperID:     developerID,
		Name:            name,
		Environment:     env,
		EncryptedSecret: encryptedSecret,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.appRepo.Save(ctx, app); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"application_id": app.ID,
		"app_id":         app.AppID.String(),
		"environment":    string(app.Environment),
	}).Info("Application registered")

	return &application.CreateApplicationResponse{
		Application: app.ToDTO(),
		AppSecret:   secret,
		Message:     "Save this secret securely. It will not be shown again on creation.",
	}, nil
}

// ListApplications returns the developer's applications.
func (s *ApplicationService) ListApplications(ctx context.Context, developerID kernel.DeveloperID) ([]application.ApplicationDTO, error) {
	apps, err := s.appRepo.FindByDeveloper(ctx, developerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]application.ApplicationDTO, 0, len(apps))
	for _, app := range apps {
		dtos = append(dtos, app.ToDTO())
	}
	return dtos, nil
}

// GetApplication returns one application, scoped to the caller.
func (s *ApplicationService) GetApplication(ctx context.Context, id string, developerID kernel.DeveloperID) (*application.ApplicationDTO, error) {
	app, err := s.appRepo.FindByID(ctx, id, developerID)
	if err != nil {
		return nil, application.ErrApplicationNotFound()
	}

	dto := app.ToDTO()
	return &dto, nil
}

// RevealSecret decrypts and returns the current app secret. The secret
// is encrypted rather than hashed precisely so it can be re-shown to
// its owner.
func (s *ApplicationService) RevealSecret(ctx context.Context, id string, developerID kernel.DeveloperID) (*application.SecretResponse, error) {
	app, err := s.appRepo.FindByID(ctx, id, developerID)
	if err != nil {
		return nil, application.ErrApplicationNotFound()
	}

	secret, err := s.cipher.Decrypt(app.EncryptedSecret)
	if err != nil {
		return nil, err
	}

	return &application.SecretResponse{
		AppID:     app.AppID,
		AppSecret: secret,
	}, nil
}

// RotateSecret replaces the app secret and returns the new plaintext.
// The old secret stops working immediately.
func (s *ApplicationService) RotateSecret(ctx context.Context, id string, developerID kernel.DeveloperID) (*application.SecretResponse, error) {
	app, err := s.appRepo.FindByID(ctx, id, developerID)
	if err != nil {
		return nil, application.ErrApplicationNotFound()
	}

	secret, err := cryptox.GenerateSecureToken(secretBytes)
	if err != nil {
		return nil, err
	}
	encryptedSecret, err := s.cipher.Encrypt(secret)
	if err != nil {
		return nil, err
	}

	app.EncryptedSecret = encryptedSecret
	app.UpdatedAt = time.Now().UTC()
	if err := s.appRepo.Update(ctx, *app); err != nil {
		return nil, err
	}

	logx.WithField("application_id", app.ID).Info("Application secret rotated")

	return &application.SecretResponse{
		AppID:     app.AppID,
		AppSecret: secret,
	}, nil
}

// DeleteApplication removes an application, scoped to the caller.
func (s *ApplicationService) DeleteApplication(ctx context.Context, id string, developerID kernel.DeveloperID) error {
	if _, err := s.appRepo.FindByID(ctx, id, developerID); err != nil {
		return application.ErrApplicationNotFound()
	}
	return s.appRepo.Delete(ctx, id, developerID)
}
