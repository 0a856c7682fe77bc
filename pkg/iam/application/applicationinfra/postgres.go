package applicationinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vishesh711/Auth-SDK/pkg/errx"
	"github.com/vishesh711/Auth-SDK/pkg/iam/application"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// PostgresApplicationRepository is the PostgreSQL implementation of
// application.ApplicationRepository.
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

func NewPostgresApplicationRepository(db *sqlx.DB) application.ApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Save(ctx context.Context, app application.Application) error {
	query := `
		INSERT INTO applications (
			id, app_id, developer_id, name, environment, encrypted_secret,
			is_active, created_at, updated_at
		) VALUES (
			:id, :app_id, :developer_id, :name, :environment, :encrypted_secret,
			:is_active, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, toPersistence(app))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation on app_id
			return errx.Wrap(err, "app_id collision", errx.TypeInternal).
				WithDetail("application_id", app.ID)
		}
		return errx.Wrap(err, "failed to create application", errx.TypeInternal).
			WithDetail("application_id", app.ID)
	}
	return nil
}

func (r *PostgresApplicationRepository) FindByID(ctx context.Context, id string, developerID kernel.DeveloperID) (*application.Application, error) {
	var row applicationPersistence
	query := `SELECT * FROM applications WHERE id = $1 AND developer_id = $2`
	if err := r.db.GetContext(ctx, &row, query, id, developerID.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, application.ErrApplicationNotFound()
		}
		return nil, errx.Wrap(err, "failed to find application by ID", errx.TypeInternal)
	}
	app := toDomain(row)
	return &app, nil
}

func (r *PostgresApplicationRepository) FindByAppID(ctx context.Context, appID kernel.AppID) (*application.Application, error) {
	var row applicationPersistence
	query := `SELECT * FROM applications WHERE app_id = $1`
	if err := r.db.GetContext(ctx, &row, query, appID.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, application.ErrApplicationNotFound()
		}
		return nil, errx.Wrap(err, "failed to find application by app_id", errx.TypeInternal)
	}
	app := toDomain(row)
	return &app, nil
}

func (r *PostgresApplicationRepository) FindByDeveloper(ctx context.Context, developerID kernel.DeveloperID) ([]*application.Application, error) {
	var rows []applicationPersistence
	query := `SELECT * FROM applications WHERE developer_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, developerID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list applications", errx.TypeInternal)
	}

	apps := make([]*application.Application, 0, len(rows))
	for _, row := range rows {
		app := toDomain(row)
		apps = append(apps, &app)
	}
	return apps, nil
}

func (r *PostgresApplicationRepository) Update(ctx context.Context, app application.Application) error {
	query := `
		UPDATE applications SET
			name = :name,
			environment = :environment,
			encrypted_secret = :encrypted_secret,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id AND developer_id = :developer_id`

	result, err := r.db.NamedExecContext(ctx, query, toPersistence(app))
	if err != nil {
		return errx.Wrap(err, "failed to update application", errx.TypeInternal).
			WithDetail("application_id", app.ID)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return application.ErrApplicationNotFound()
	}
	return nil
}

func (r *PostgresApplicationRepository) Delete(ctx context.Context, id string, developerID kernel.DeveloperID) error {
	query := `DELETE FROM applications WHERE id = $1 AND developer_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, developerID.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete application", errx.TypeInternal).
			WithDetail("application_id", id)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return application.ErrApplicationNotFound()
	}
	return nil
}
