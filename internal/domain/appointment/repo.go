package appointment

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists appointments. Every method is scoped to the owning
// practitioner.
type Repository interface {
	List(ctx context.Context, ownerID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Appointment, error)
	Create(ctx context.Context, ownerID uuid.UUID, a *Appointment) (*Appointment, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateInput) (*Appointment, error)
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status string) (*Appointment, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ListByPatient returns a patient's appointments annotated with their
	// linked case, newest first.
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*Appointment, error)
	// ListByCase returns a case's appointments, newest first.
	ListByCase(ctx context.Context, ownerID, caseID uuid.UUID) ([]*Appointment, error)
	// ExistsForPatient reports whether the appointment belongs to the given
	// owner and patient.
	ExistsForPatient(ctx context.Context, ownerID, id, patientID uuid.UUID) (bool, error)
	// ExistsForCase reports whether the appointment belongs to the given
	// owner and case.
	ExistsForCase(ctx context.Context, ownerID, id, caseID uuid.UUID) (bool, error)
}

// PatientChecker verifies that a patient row is owned by the caller before an
// appointment may reference it.
type PatientChecker interface {
	Exists(ctx context.Context, ownerID, patientID uuid.UUID) (bool, error)
}

// CaseChecker verifies that a case row is owned by the caller.
type CaseChecker interface {
	Exists(ctx context.Context, ownerID, caseID uuid.UUID) (bool, error)
}
