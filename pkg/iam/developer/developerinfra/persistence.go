package developerinfra

import (
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/iam/developer"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// developerPersistence mirrors the developers table row.
type developerPersistence struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func toPersistence(dev developer.Developer) developerPersistence {
	return developerPersistence{
		ID:           dev.ID.String(),
		Email:        dev.Email,
		PasswordHash: dev.PasswordHash,
		Name:         dev.Name,
		IsActive:     dev.IsActive,
		CreatedAt:    dev.CreatedAt,
		UpdatedAt:    dev.UpdatedAt,
	}
}

func toDomain(row developerPersistence) developer.Developer {
	return developer.Developer{
		ID:           kernel.NewDeveloperID(row.ID),
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Name:         row.Name,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
