package developer

import (
	"net/http"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// ============================================================================
// Entity
// ============================================================================

// Developer is a tenant operator: the account that owns applications
// and API keys and signs in through the developer portal.
type Developer struct {
	ID           kernel.DeveloperID `db:"id" json:"id"`
	Email        string             `db:"email" json:"email"`
	PasswordHash string             `db:"password_hash" json:"-"`
	Name         string             `db:"name" json:"name"`
	IsActive     bool               `db:"is_active" json:"is_active"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}

// DeveloperDTO is the client-facing shape, without credentials.
type DeveloperDTO struct {
	ID        kernel.DeveloperID `json:"id"`
	Email     string             `json:"email"`
	Name      string             `json:"name"`
	IsActive  bool               `json:"is_active"`
	CreatedAt time.Time          `json:"created_at"`
}

// ToDTO converts the entity to its client-facing shape.
func (d *Developer) ToDTO() DeveloperDTO {
	return DeveloperDTO{
		ID:        d.ID,
		Email:     d.Email,
		Name:      d.Name,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
	}
}

// ============================================================================
// DTOs
// ============================================================================

// SignupRequest is the portal signup payload.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the portal login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the portal access token.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	Developer   DeveloperDTO `json:"developer"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("DEVELOPER")

var (
	CodeDeveloperNotFound  = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Developer not found")
	CodeEmailExists        = ErrRegistry.Register("EMAIL_EXISTS", errx.TypeConflict, http.StatusConflict, "Email already registered")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid email or password")
	CodeInvalidPassword    = ErrRegistry.Register("INVALID_PASSWORD", errx.TypeValidation, http.StatusBadRequest, "Password does not meet requirements")
	CodeAccountDisabled    = ErrRegistry.Register("ACCOUNT_DISABLED", errx.TypeAuthorization, http.StatusForbidden, "Account is disabled")
)

// Helper functions
func ErrDeveloperNotFound() *errx.Error {
	return ErrRegistry.New(CodeDeveloperNotFound)
}

func ErrEmailExists() *errx.Error {
	return ErrRegistry.New(CodeEmailExists)
}

func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredentials)
}

func ErrInvalidPassword(reason string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidPassword, reason)
}

func ErrAccountDisabled() *errx.Error {
	return ErrRegistry.New(CodeAccountDisabled)
}
