package apikeyinfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/iam/apikey"
)

// PostgresAPIKeyRepository is the PostgreSQL implementation of
// apikey.APIKeyRepository.
type PostgresAPIKeyRepository struct {
	db *sqlx.DB
}

func NewPostgresAPIKeyRepository(db *sqlx.DB) apikey.APIKeyRepository {
	return &PostgresAPIKeyRepository{db: db}
}

// Save inserts or updates an API key.
func (r *PostgresAPIKeyRepository) Save(ctx context.Context, key apikey.APIKey) error {
	exists, err := r.keyExists(ctx, key.ID)
	if err != nil {
		return errx.Wrap(err, "failed to check API key existence", errx.TypeInternal)
	}
	if exists {
		return r.update(ctx, key)
	}
	return r.create(ctx, key)
}

func (r *PostgresAPIKeyRepository) create(ctx context.Context, key apikey.APIKey) error {
	query := `
		INSERT INTO api_keys (
			id, application_id, app_id, key_hash, key_prefix, name,
			is_active, last_used_at, created_at, updated_at
		) VALUES (
			:id, :application_id, :app_id, :key_hash, :key_prefix, :name,
			:is_active, :last_used_at, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, toPersistence(key))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation on key_hash
			return apikey.ErrAPIKeyInvalid().WithDetail("reason", "key hash already exists")
		}
		return errx.Wrap(err, "failed to create API key", errx.TypeInternal).
			WithDetail("api_key_id", key.ID)
	}
	return nil
}

func (r *PostgresAPIKeyRepository) update(ctx context.Context, key apikey.APIKey) error {
	query := `
		UPDATE api_keys SET
			name = :name,
			is_active = :is_active,
			last_used_at = :last_used_at,
			updated_at = :updated_at
		WHERE id = :id AND application_id = :application_id`

	result, err := r.db.NamedExecContext(ctx, query, toPersistence(key))
	if err != nil {
		return errx.Wrap(err, "failed to update API key", errx.TypeInternal).
			WithDetail("api_key_id", key.ID)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return apikey.ErrAPIKeyNotFound()
	}
	return nil
}

func (r *PostgresAPIKeyRepository) FindByID(ctx context.Context, id, applicationID string) (*apikey.APIKey, error) {
	var row apiKeyPersistence
	query := `SELECT * FROM api_keys WHERE id = $1 AND application_id = $2`
	if err := r.db.GetContext(ctx, &row, query, id, applicationID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apikey.ErrAPIKeyNotFound()
		}
		return nil, errx.Wrap(err, "failed to find API key by ID", errx.TypeInternal)
	}
	key := toDomain(row)
	return &key, nil
}

func (r *PostgresAPIKeyRepository) FindByHash(ctx context.Context, keyHash string) (*apikey.APIKey, error) {
	var row apiKeyPersistence
	query := `SELECT * FROM api_keys WHERE key_hash = $1`
	if err := r.db.GetContext(ctx, &row, query, keyHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, apikey.ErrAPIKeyNotFound()
		}
		return nil, errx.Wrap(err, "failed to find API key by hash", errx.TypeInternal)
	}
	key := toDomain(row)
	return &key, nil
}

func (r *PostgresAPIKeyRepository) FindByApplication(ctx context.Context, applicationID string) ([]*apikey.APIKey, error) {
	var rows []apiKeyPersistence
	query := `SELECT * FROM api_keys WHERE application_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, applicationID); err != nil {
		return nil, errx.Wrap(err, "failed to list API keys", errx.TypeInternal)
	}

	keys := make([]*apikey.APIKey, 0, len(rows))
	for _, row := range rows {
		key := toDomain(row)
		keys = append(keys, &key)
	}
	return keys, nil
}

func (r *PostgresAPIKeyRepository) UpdateLastUsed(ctx context.Context, id string) error {
	query := `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return errx.Wrap(err, "failed to update API key last_used_at", errx.TypeInternal).
			WithDetail("api_key_id", id)
	}
	return nil
}

func (r *PostgresAPIKeyRepository) keyExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM api_keys WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, err
	}
	return exists, nil
}
