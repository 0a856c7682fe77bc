package applicationinfra

import (
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/iam/application"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// applicationPersistence mirrors the applications table row.
type applicationPersistence struct {
	ID              string    `db:"id"`
	AppID           string    `db:"app_id"`
	DeveloperID     string    `db:"developer_id"`
	Name            string    `db:"name"`
	Environment     string    `db:"environment"`
	EncryptedSecret string    `db:"encrypted_secret"`
	IsActive        bool      `db:"is_active"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func toPersistence(app application.Application) applicationPersistence {
	return applicationPersistence{
		ID:              app.ID,
		AppID:           app.AppID.String(),
		DeveloperID:     app.DeveloperID.String(),
		Name:            app.Name,
		Environment:     string(app.Environment),
		EncryptedSecret: app.EncryptedSecret,
		IsActive:        app.IsActive,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

func toDomain(row applicationPersistence) application.Application {
	return application.Application{
		ID:              row.ID,
		AppID:           kernel.NewAppID(row.AppID),
		DeveloperID:     kernel.NewDeveloperID(row.DeveloperID),
		Name:            row.Name,
		Environment:     application.Environment(row.Environment),
		EncryptedSecret: row.EncryptedSecret,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
