package application

import (
	"context"

	"github.com/vishesh711/Auth-SDK/pkg/kernel"
)

// ApplicationRepository defines the contract for application persistence.
// Lookups taking a DeveloperID are ownership-scoped: rows belonging to
// another developer behave as missing.
type ApplicationRepository interface {
	Save(ctx context.Context, app Application) error
	FindByID(ctx context.Context, id string, developerID kernel.DeveloperID) (*Application, error)
	FindByAppID(ctx context.Context, appID kernel.AppID) (*Application, error)
	FindByDeveloper(ctx context.Context, developerID kernel.DeveloperID) ([]*Application, error)
	Update(ctx context.Context, app Application) error
	Delete(ctx context.Context, id string, developerID kernel.DeveloperID) error
}
