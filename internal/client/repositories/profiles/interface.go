// Package profiles stores the identities registered from this machine.
// At most one profile is current.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
)

type Repository interface {
	// Save upserts p by uid.
	Save(ctx context.Context, p models.Profile) error
	// SetCurrent marks uid as the current profile and unmarks the rest.
	SetCurrent(ctx context.Context, uid int64) error
	// Current returns (nil, nil) when no profile is current.
	Current(ctx context.Context) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	// ClearCurrent unmarks the current profile without deleting it.
	ClearCurrent(ctx context.Context) error
}
