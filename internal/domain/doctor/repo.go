package doctor

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists doctor profiles.
type Repository interface {
	// GetByUser returns the profile, or db.ErrNotFound when the caller has
	// never saved one.
	GetByUser(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// Upsert creates the profile on first save and overwrites it after.
	Upsert(ctx context.Context, p *Profile) (*Profile, error)
}
