package cases

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists cases. Every method is scoped to the owning
// practitioner.
type Repository interface {
	List(ctx context.Context, ownerID uuid.UUID, f ListFilter, limit, offset int) ([]*Case, int, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Case, error)
	Create(ctx context.Context, ownerID uuid.UUID, c *Case) (*Case, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateInput) (*Case, error)
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status string) (*Case, error)
	// Delete removes the case, its notes, and unlinks its appointments in
	// one transaction.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ListByPatient returns a patient's cases, newest episode first.
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*Case, error)
	// AttachmentPath returns the stored object path, or db.ErrNotFound when
	// the case has none.
	AttachmentPath(ctx context.Context, ownerID, id uuid.UUID) (string, error)
	// Exists reports whether the case belongs to the owner.
	Exists(ctx context.Context, ownerID, caseID uuid.UUID) (bool, error)
	// CountByStatus counts the owner's cases in the given status.
	CountByStatus(ctx context.Context, ownerID uuid.UUID, status string) (int, error)
}

// PatientChecker verifies that a patient row is owned by the caller before a
// case may reference it.
type PatientChecker interface {
	Exists(ctx context.Context, ownerID, patientID uuid.UUID) (bool, error)
}
