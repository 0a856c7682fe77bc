package userinfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/iam/user"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// PostgresUserRepository is the PostgreSQL implementation of
// user.UserRepository. All methods participate in a context-carried
// transaction when one is open.
type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) user.UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Save(ctx context.Context, u user.User) error {
	query := `
		INSERT INTO users (
			id, app_id, email, password_hash, is_verified, is_active,
			metadata, last_login_at, created_at, updated_at
		) VALUES (
			:id, :app_id, :email, :password_hash, :is_verified, :is_active,
			:metadata, :last_login_at, :created_at, :updated_at
		)`

	_, err := executor(ctx, r.db).NamedExecContext(ctx, query, userToPersistence(u))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique (app_id, email)
			return user.ErrEmailExists()
		}
		return errx.Wrap(err, "failed to create user", errx.TypeInternal).
			WithDetail("user_id", u.ID.String())
	}
	return nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	var row userPersistence
	query := `SELECT * FROM users WHERE id = $1`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by ID", errx.TypeInternal)
	}
	u := userToDomain(row)
	return &u, nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, appID kernel.AppID, email string) (*user.User, error) {
	var row userPersistence
	query := `SELECT * FROM users WHERE app_id = $1 AND email = $2`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, appID.String(), email); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by email", errx.TypeInternal)
	}
	u := userToDomain(row)
	return &u, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) error {
	query := `
		UPDATE users SET
			email = :email,
			password_hash = :password_hash,
			is_verified = :is_verified,
			is_active = :is_active,
			metadata = :metadata,
			last_login_at = :last_login_at,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := executor(ctx, r.db).NamedExecContext(ctx, query, userToPersistence(u))
	if err != nil {
		return errx.Wrap(err, "failed to update user", errx.TypeInternal).
			WithDetail("user_id", u.ID.String())
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return user.ErrUserNotFound()
	}
	return nil
}

// PostgresSessionRepository is the PostgreSQL implementation of
// user.SessionRepository.
type PostgresSessionRepository struct {
	db *sqlx.DB
}

func NewPostgresSessionRepository(db *sqlx.DB) user.SessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (r *PostgresSessionRepository) Save(ctx context.Context, s user.Session) error {
	query := `
		INSERT INTO sessions (
			id, user_id, app_id, refresh_token_hash, user_agent, ip_address,
			expires_at, created_at, revoked_at
		) VALUES (
			:id, :user_id, :app_id, :refresh_token_hash, :user_agent, :ip_address,
			:expires_at, :created_at, :revoked_at
		)`

	if _, err := executor(ctx, r.db).NamedExecContext(ctx, query, sessionToPersistence(s)); err != nil {
		return errx.Wrap(err, "failed to create session", errx.TypeInternal).
			WithDetail("session_id", s.ID.String())
	}
	return nil
}

func (r *PostgresSessionRepository) FindByID(ctx context.Context, id kernel.SessionID) (*user.Session, error) {
	var row sessionPersistence
	query := `SELECT * FROM sessions WHERE id = $1`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrInvalidToken()
		}
		return nil, errx.Wrap(err, "failed to find session", errx.TypeInternal)
	}
	s := sessionToDomain(row)
	return &s, nil
}

func (r *PostgresSessionRepository) Update(ctx context.Context, s user.Session) error {
	query := `
		UPDATE sessions SET
			refresh_token_hash = :refresh_token_hash,
			expires_at = :expires_at,
			revoked_at = :revoked_at
		WHERE id = :id`

	if _, err := executor(ctx, r.db).NamedExecContext(ctx, query, sessionToPersistence(s)); err != nil {
		return errx.Wrap(err, "failed to update session", errx.TypeInternal).
			WithDetail("session_id", s.ID.String())
	}
	return nil
}

func (r *PostgresSessionRepository) RevokeAllForUser(ctx context.Context, userID kernel.UserID) error {
	query := `UPDATE sessions SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, time.Now().UTC(), userID.String()); err != nil {
		return errx.Wrap(err, "failed to revoke user sessions", errx.TypeInternal).
			WithDetail("user_id", userID.String())
	}
	return nil
}

func (r *PostgresSessionRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE revoked_at IS NOT NULL AND revoked_at < $1`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge stale sessions", errx.TypeInternal)
	}
	return result.RowsAffected()
}

// PostgresVerificationTokenRepository is the PostgreSQL implementation
// of user.VerificationTokenRepository.
type PostgresVerificationTokenRepository struct {
	db *sqlx.DB
}

func NewPostgresVerificationTokenRepository(db *sqlx.DB) user.VerificationTokenRepository {
	return &PostgresVerificationTokenRepository{db: db}
}

func (r *PostgresVerificationTokenRepository) Save(ctx context.Context, t user.EmailVerificationToken) error {
	query := `
		INSERT INTO email_verification_tokens (
			id, user_id, token_hash, expires_at, created_at, used_at
		) VALUES (
			:id, :user_id, :token_hash, :expires_at, :created_at, :used_at
		)`

	if _, err := executor(ctx, r.db).NamedExecContext(ctx, query, verificationToPersistence(t)); err != nil {
		return errx.Wrap(err, "failed to create verification token", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresVerificationTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*user.EmailVerificationToken, error) {
	var row tokenPersistence
	query := `SELECT * FROM email_verification_tokens WHERE token_hash = $1`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, tokenHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrInvalidToken()
		}
		return nil, errx.Wrap(err, "failed to find verification token", errx.TypeInternal)
	}
	t := verificationToDomain(row)
	return &t, nil
}

func (r *PostgresVerificationTokenRepository) Update(ctx context.Context, t user.EmailVerificationToken) error {
	query := `UPDATE email_verification_tokens SET used_at = :used_at WHERE id = :id`
	if _, err := executor(ctx, r.db).NamedExecContext(ctx, query, verificationToPersistence(t)); err != nil {
		return errx.Wrap(err, "failed to update verification token", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresVerificationTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM email_verification_tokens WHERE expires_at < $1`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge verification tokens", errx.TypeInternal)
	}
	return result.RowsAffected()
}

// PostgresResetTokenRepository is the PostgreSQL implementation of
// user.ResetTokenRepository.
type PostgresResetTokenRepository struct {
	db *sqlx.DB
}

func NewPostgresResetTokenRepository(db *sqlx.DB) user.ResetTokenRepository {
	return &PostgresResetTokenRepository{db: db}
}

func (r *PostgresResetTokenRepository) Save(ctx context.Context, t user.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (
			id, user_id, token_hash, expires_at, created_at, used_at
		) VALUES (
			:id, :user_id, :token_hash, :expires_at, :created_at, :used_at
		)`

	if _, err := executor(ctx, r.db).NamedExecContext(ctx, query, resetToPersistence(t)); err != nil {
		return errx.Wrap(err, "failed to create reset token", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresResetTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*user.PasswordResetToken, error) {
	var row tokenPersistence
	query := `SELECT * FROM password_reset_tokens WHERE token_hash = $1`
	if err := executor(ctx, r.db).GetContext(ctx, &row, query, tokenHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrInvalidToken()
		}
		return nil, errx.Wrap(err, "failed to find reset token", errx.TypeInternal)
	}
	t := resetToDomain(row)
	return &t, nil
}

func (r *PostgresResetTokenRepository) Update(ctx context.Context, t user.PasswordResetToken) error {
	query := `UPDATE password_reset_tokens SET used_at = :used_at WHERE id = :id`
	if _, err := executor(ctx, r.db).NamedExecContext(ctx, query, resetToPersistence(t)); err != nil {
		return errx.Wrap(err, "failed to update reset token", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresResetTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM password_reset_tokens WHERE expires_at < $1`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, errx.Wrap(err, "failed to purge reset tokens", errx.TypeInternal)
	}
	return result.RowsAffected()
}
