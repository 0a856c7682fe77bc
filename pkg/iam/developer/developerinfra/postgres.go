package developerinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/iam/developer"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// PostgresDeveloperRepository is the PostgreSQL implementation of
// developer.DeveloperRepository.
type PostgresDeveloperRepository struct {
	db *sqlx.DB
}

func NewPostgresDeveloperRepository(db *sqlx.DB) developer.DeveloperRepository {
	return &PostgresDeveloperRepository{db: db}
}

func (r *PostgresDeveloperRepository) Save(ctx context.Context, dev developer.Developer) error {
	query := `
		INSERT INTO developers (
			id, email, password_hash, name, is_active, created_at, updated_at
		) VALUES (
			:id, :email, :password_hash, :name, :is_active, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, toPersistence(dev))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return developer.ErrEmailExists()
		}
		return errx.Wrap(err, "failed to create developer", errx.TypeInternal).
			WithDetail("developer_id", dev.ID.String())
	}
	return nil
}

func (r *PostgresDeveloperRepository) FindByID(ctx context.Context, id kernel.DeveloperID) (*developer.Developer, error) {
	var row developerPersistence
	query := `SELECT * FROM developers WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, developer.ErrDeveloperNotFound()
		}
		return nil, errx.Wrap(err, "failed to find developer by ID", errx.TypeInternal)
	}
	dev := toDomain(row)
	return &dev, nil
}

func (r *PostgresDeveloperRepository) FindByEmail(ctx context.Context, email string) (*developer.Developer, error) {
	var row developerPersistence
	query := `SELECT * FROM developers WHERE email = $1`
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, developer.ErrDeveloperNotFound()
		}
		return nil, errx.Wrap(err, "failed to find developer by email", errx.TypeInternal)
	}
	dev := toDomain(row)
	return &dev, nil
}

func (r *PostgresDeveloperRepository) Update(ctx context.Context, dev developer.Developer) error {
	query := `
		UPDATE developers SET
			email = :email,
			password_hash = :password_hash,
			name = :name,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, toPersistence(dev))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return developer.ErrEmailExists()
		}
		return errx.Wrap(err, "failed to update developer", errx.TypeInternal).
			WithDetail("developer_id", dev.ID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return developer.ErrDeveloperNotFound()
	}
	return nil
}
