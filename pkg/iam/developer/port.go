package developer

import (
	"context"

	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// DeveloperRepository defines the contract for developer persistence.
type DeveloperRepository interface {
	Save(ctx context.Context, dev Developer) error
	FindByID(ctx context.Context, id kernel.DeveloperID) (*Developer, error)
	FindByEmail(ctx context.Context, email string) (*Developer, error)
	Update(ctx context.Context, dev Developer) error
}
