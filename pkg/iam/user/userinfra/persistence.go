package userinfra

import (
	"encoding/json"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/iam/user"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

type userPersistence struct {
	ID           string          `db:"id"`
	AppID        string          `db:"app_id"`
	Email        string          `db:"email"`
	PasswordHash string          `db:"password_hash"`
	IsVerified   bool            `db:"is_verified"`
	IsActive     bool            `db:"is_active"`
	Metadata     json.RawMessage `db:"metadata"`
	LastLoginAt  *time.Time      `db:"last_login_at"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func userToPersistence(u user.User) userPersistence {
	return userPersistence{
		ID:           u.ID.String(),
		AppID:        u.AppID.String(),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsVerified:   u.IsVerified,
		IsActive:     u.IsActive,
		Metadata:     u.Metadata,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userToDomain(row userPersistence) user.User {
	return user.User{
		ID:           kernel.NewUserID(row.ID),
		AppID:        kernel.NewAppID(row.AppID),
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsVerified:   row.IsVerified,
		IsActive:     row.IsActive,
		Metadata:     row.Metadata,
		LastLoginAt:  row.LastLoginAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

type sessionPersistence struct {
	ID               string     `db:"id"`
	UserID           string     `db:"user_id"`
	AppID            string     `db:"app_id"`
	RefreshTokenHash string     `db:"refresh_token_hash"`
	UserAgent        string     `db:"user_agent"`
	IPAddress        string     `db:"ip_address"`
	ExpiresAt        time.Time  `db:"expires_at"`
	CreatedAt        time.Time  `db:"created_at"`
	RevokedAt        *time.Time `db:"revoked_at"`
}

func sessionToPersistence(s user.Session) sessionPersistence {
	return sessionPersistence{
		ID:               s.ID.String(),
		UserID:           s.UserID.String(),
		AppID:            s.AppID.String(),
		RefreshTokenHash: s.RefreshTokenHash,
		UserAgent:        s.UserAgent,
		IPAddress:        s.IPAddress,
		ExpiresAt:        s.ExpiresAt,
		CreatedAt:        s.CreatedAt,
		RevokedAt:        s.RevokedAt,
	}
}

func sessionToDomain(row sessionPersistence) user.Session {
	return user.Session{
		ID:               kernel.NewSessionID(row.ID),
		UserID:           kernel.NewUserID(row.UserID),
		AppID:            kernel.NewAppID(row.AppID),
		RefreshTokenHash: row.RefreshTokenHash,
		UserAgent:        row.UserAgent,
		IPAddress:        row.IPAddress,
		ExpiresAt:        row.ExpiresAt,
		CreatedAt:        row.CreatedAt,
		RevokedAt:        row.RevokedAt,
	}
}

type tokenPersistence struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	UsedAt    *time.Time `db:"used_at"`
}

func verificationToPersistence(t user.EmailVerificationToken) tokenPersistence {
	return tokenPersistence{
		ID:        t.ID,
		UserID:    t.UserID.String(),
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
		UsedAt:    t.UsedAt,
	}
}

func verificationToDomain(row tokenPersistence) user.EmailVerificationToken {
	return user.EmailVerificationToken{
		ID:        row.ID,
		UserID:    kernel.NewUserID(row.UserID),
		TokenHash: row.TokenHash,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
		UsedAt:    row.UsedAt,
	}
}

func resetToPersistence(t user.PasswordResetToken) tokenPersistence {
	return tokenPersistence{
		ID:        t.ID,
		UserID:    t.UserID.String(),
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
		UsedAt:    t.UsedAt,
	}
}

func resetToDomain(row tokenPersistence) user.PasswordResetToken {
	return user.PasswordResetToken{
		ID:        row.ID,
		UserID:    kernel.NewUserID(row.UserID),
		TokenHash: row.TokenHash,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
		UsedAt:    row.UsedAt,
	}
}
