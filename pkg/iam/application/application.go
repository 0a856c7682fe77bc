package application

import (
	"net/http"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// ============================================================================
// Entity
// ============================================================================

// Environment tags an application as development or production.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// IsValid reports whether the environment is one of the known values.
func (e Environment) IsValid() bool {
	return e == EnvDevelopment || e == EnvProduction
}

// Application is a registered tenant application. AppID is the public
// identifier embedded in end-user tokens; EncryptedSecret is the app
// secret encrypted at rest, never exposed through the DTO.
type Application struct {
	ID              string             `db:"id" json:"id"`
	AppID           kernel.AppID       `db:"app_id" json:"app_id"`
	DeveloperID     kernel.DeveloperID `db:"developer_id" json:"developer_id"`
	Name            string             `db:"name" json:"name"`
	Environment     Environment        `db:"environment" json:"environment"`
	EncryptedSecret string             `db:"encrypted_secret" json:"-"`
	IsActive        bool               `db:"is_active" json:"is_active"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// ApplicationDTO is the client-facing shape, without the secret.
type ApplicationDTO struct {
	ID          string       `json:"id"`
	AppID       kernel.AppID `json:"app_id"`
	Name        string       `json:"name"`
	Environment Environment  `json:"environment"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ToDTO converts the entity to its client-facing shape.
func (a *Application) ToDTO() ApplicationDTO {
	return ApplicationDTO{
		ID:          a.ID,
		AppID:       a.AppID,
		Name:        a.Name,
		Environment: a.Environment,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
	}
}

// ============================================================================
// DTOs
// ============================================================================

// CreateApplicationRequest is the portal payload for registering an app.
type CreateApplicationRequest struct {
	Name        string      `json:"name"`
	Environment Environment `json:"environment"`
}

// CreateApplicationResponse carries the one-time plaintext secret.
type CreateApplicationResponse struct {
	Application ApplicationDTO `json:"application"`
	AppSecret   string         `json:"app_secret"`
	Message     string         `json:"message"`
}

// SecretResponse carries a revealed or rotated app secret.
type SecretResponse struct {
	AppID     kernel.AppID `json:"app_id"`
	AppSecret string       `json:"app_secret"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("APPLICATION")

var (
	// Ownership violations deliberately collapse into NOT_FOUND so a
	// developer cannot probe for other tenants' application ids.
	CodeApplicationNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")
	CodeInvalidName         = ErrRegistry.Register("INVALID_NAME", errx.TypeValidation, http.StatusBadRequest, "Application name is required")
	CodeInvalidEnvironment  = ErrRegistry.Register("INVALID_ENVIRONMENT", errx.TypeValidation, http.StatusBadRequest, "Environment must be development or production")
)

// Helper functions
func ErrApplicationNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotFound)
}

func ErrInvalidName() *errx.Error {
	return ErrRegistry.New(CodeInvalidName)
}

func ErrInvalidEnvironment() *errx.Error {
	return ErrRegistry.New(CodeInvalidEnvironment)
}
