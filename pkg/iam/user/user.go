package user

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// ============================================================================
// Entities
// ============================================================================

// User is an end user of one registered application. The same email
// may exist independently under different applications; every lookup
// is scoped by (app_id, email).
type User struct {
	ID           kernel.UserID   `db:"id" json:"id"`
	AppID        kernel.AppID    `db:"app_id" json:"app_id"`
	Email        string          `db:"email" json:"email"`
	PasswordHash string          `db:"password_hash" json:"-"`
	IsVerified   bool            `db:"is_verified" json:"is_verified"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	Metadata     json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	LastLoginAt  *time.Time      `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// UserDTO is the client-facing shape, without credentials.
type UserDTO struct {
	ID          kernel.UserID   `json:"id"`
	Email       string          `json:"email"`
	IsVerified  bool            `json:"is_verified"`
	IsActive    bool            `json:"is_active"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToDTO converts the entity to its client-facing shape.
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		IsVerified:  u.IsVerified,
		IsActive:    u.IsActive,
		Metadata:    u.Metadata,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// Session is the server-side anchor of a refresh token. Only the
// SHA-256 hash of the token is stored; revoking the row invalidates
// the token regardless of its JWT expiry.
type Session struct {
	ID               kernel.SessionID `db:"id" json:"id"`
	UserID           kernel.UserID    `db:"user_id" json:"user_id"`
	AppID            kernel.AppID     `db:"app_id" json:"app_id"`
	RefreshTokenHash string           `db:"refresh_token_hash" json:"-"`
	UserAgent        string           `db:"user_agent" json:"user_agent"`
	IPAddress        string           `db:"ip_address" json:"ip_address"`
	ExpiresAt        time.Time        `db:"expires_at" json:"expires_at"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	RevokedAt        *time.Time       `db:"revoked_at" json:"revoked_at,omitempty"`
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsValid checks if the session can still mint access tokens.
func (s *Session) IsValid() bool {
	return s.RevokedAt == nil && !s.IsExpired()
}

// Revoke invalidates the session.
func (s *Session) Revoke() {
	now := time.Now().UTC()
	s.RevokedAt = &now
}

// EmailVerificationToken is a single-use email ownership proof.
// Stored hashed; raw value leaves the system only inside the email.
type EmailVerificationToken struct {
	ID        string        `db:"id" json:"id"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	TokenHash string        `db:"token_hash" json:"-"`
	ExpiresAt time.Time     `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UsedAt    *time.Time    `db:"used_at" json:"used_at,omitempty"`
}

// IsValid checks if the token is unused and unexpired.
func (t *EmailVerificationToken) IsValid() bool {
	return t.UsedAt == nil && time.Now().Before(t.ExpiresAt)
}

// MarkUsed consumes the token.
func (t *EmailVerificationToken) MarkUsed() {
	now := time.Now().UTC()
	t.UsedAt = &now
}

// PasswordResetToken is a single-use password reset proof.
type PasswordResetToken struct {
	ID        string        `db:"id" json:"id"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	TokenHash string        `db:"token_hash" json:"-"`
	ExpiresAt time.Time     `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UsedAt    *time.Time    `db:"used_at" json:"used_at,omitempty"`
}

// IsValid checks if the token is unused and unexpired.
func (t *PasswordResetToken) IsValid() bool {
	return t.UsedAt == nil && time.Now().Before(t.ExpiresAt)
}

// MarkUsed consumes the token.
func (t *PasswordResetToken) MarkUsed() {
	now := time.Now().UTC()
	t.UsedAt = &now
}

// ============================================================================
// Lifetimes
// ============================================================================

const (
	// VerificationTokenTTL is how long an email verification link works.
	VerificationTokenTTL = 48 * time.Hour

	// ResetTokenTTL is how long a password reset link works.
	ResetTokenTTL = time.Hour
)

// ============================================================================
// DTOs
// ============================================================================

// RegisterRequest is the end-user signup payload. Metadata is an
// opaque blob the application attaches to its user; the service never
// inspects it.
type RegisterRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// LoginRequest is the end-user login payload. IPAddress and UserAgent
// come from the transport layer, not the client body.
type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoginResponse carries the token pair and the user.
type LoginResponse struct {
	TokenPair
	User UserDTO `json:"user"`
}

// IntrospectionResult is the fail-closed view of a verified access token.
type IntrospectionResult struct {
	Active bool          `json:"active"`
	UserID kernel.UserID `json:"user_id,omitempty"`
	Email  string        `json:"email,omitempty"`
	Expiry *time.Time    `json:"exp,omitempty"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeEmailExists        = ErrRegistry.Register("EMAIL_EXISTS", errx.TypeConflict, http.StatusConflict, "Email already registered")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid email or password")
	CodeInvalidPassword    = ErrRegistry.Register("INVALID_PASSWORD", errx.TypeValidation, http.StatusBadRequest, "Password does not meet requirements")
	CodeInvalidToken       = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeEmailNotVerified   = ErrRegistry.Register("EMAIL_NOT_VERIFIED", errx.TypeAuthorization, http.StatusForbidden, "Email address is not verified")
	CodeAlreadyVerified    = ErrRegistry.Register("ALREADY_VERIFIED", errx.TypeConflict, http.StatusConflict, "Email address is already verified")
	CodeAccountDisabled    = ErrRegistry.Register("ACCOUNT_DISABLED", errx.TypeAuthorization, http.StatusForbidden, "Account is disabled")
	CodeUserNotFound       = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
)

// Helper functions
func ErrEmailExists() *errx.Error {
	return ErrRegistry.New(CodeEmailExists)
}

func ErrInvalidCredentials() *errx.Error {
	return ErrRegistry.New(CodeInvalidCredentials)
}

func ErrInvalidPassword(reason string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidPassword, reason)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrEmailNotVerified() *errx.Error {
	return ErrRegistry.New(CodeEmailNotVerified)
}

func ErrAlreadyVerified() *errx.Error {
	return ErrRegistry.New(CodeAlreadyVerified)
}

func ErrAccountDisabled() *errx.Error {
	return ErrRegistry.New(CodeAccountDisabled)
}

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}
