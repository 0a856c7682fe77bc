package user

import (
	"context"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// UserRepository defines the contract for end-user persistence.
type UserRepository interface {
	Save(ctx context.Context, u User) error
	FindByID(ctx context.Context, id kernel.UserID) (*User, error)
	FindByEmail(ctx context.Context, appID kernel.AppID, email string) (*User, error)
	Update(ctx context.Context, u User) error
}

// SessionRepository defines the contract for session persistence.
type SessionRepository interface {
	Save(ctx context.Context, s Session) error
	FindByID(ctx context.Context, id kernel.SessionID) (*Session, error)
	Update(ctx context.Context, s Session) error
	RevokeAllForUser(ctx context.Context, userID kernel.UserID) error
	// DeleteStale removes sessions revoked before the cutoff, returning
	// the number of rows purged. Expired but unrevoked sessions stay;
	// they remain the audit trail of past logins.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// VerificationTokenRepository defines the contract for email
// verification token persistence.
type VerificationTokenRepository interface {
	Save(ctx context.Context, t EmailVerificationToken) error
	FindByHash(ctx context.Context, tokenHash string) (*EmailVerificationToken, error)
	Update(ctx context.Context, t EmailVerificationToken) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ResetTokenRepository defines the contract for password reset token
// persistence.
type ResetTokenRepository interface {
	Save(ctx context.Context, t PasswordResetToken) error
	FindByHash(ctx context.Context, tokenHash string) (*PasswordResetToken, error)
	Update(ctx context.Context, t PasswordResetToken) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TxRunner runs fn inside one database transaction. The context passed
// to fn carries the transaction; repositories participate in it
// transparently.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Mailer sends the account lifecycle emails. Satisfied by
// notifx.AuthMailer.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, appName, token string) error
	SendPasswordResetEmail(ctx context.Context, to, appName, token string) error
}

// LoginGuard tracks failed login attempts per (email, ip). Satisfied
// by limitx.BruteForceGuard.
type LoginGuard interface {
	CheckLockout(ctx context.Context, email, ip string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email, ip string) (bool, int, error)
	ClearAttempts(ctx context.Context, email, ip string) error
}
