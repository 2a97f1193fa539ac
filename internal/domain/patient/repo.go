package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/caretrack/caretrack/internal/domain/appointment"
	"github.com/caretrack/caretrack/internal/domain/cases"
	"github.com/caretrack/caretrack/internal/domain/visitnote"
)

// Repository persists patients. Every method is scoped to the owning
// practitioner.
type Repository interface {
	List(ctx context.Context, ownerID uuid.UUID, f ListFilter, limit, offset int) ([]*Patient, int, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Patient, error)
	Create(ctx context.Context, ownerID uuid.UUID, p *Patient) (*Patient, error)
	// CreateWithCase inserts the patient and its initial case in one
	// transaction; neither row lands without the other.
	CreateWithCase(ctx context.Context, ownerID uuid.UUID, p *Patient, cs *cases.Case) (*Patient, *cases.Case, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateInput) (*Patient, error)
	// Delete removes the patient and its notes, appointments, and cases in
	// one transaction.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// AttachmentPath returns the stored object path, or db.ErrNotFound when
	// the patient has none.
	AttachmentPath(ctx context.Context, ownerID, id uuid.UUID) (string, error)
	// Exists reports whether the patient belongs to the owner.
	Exists(ctx context.Context, ownerID, patientID uuid.UUID) (bool, error)
	// Count counts the owner's patients.
	Count(ctx context.Context, ownerID uuid.UUID) (int, error)
}

// AppointmentStore is the slice of the appointment repository the patient
// service reads from.
type AppointmentStore interface {
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*appointment.Appointment, error)
	ExistsForPatient(ctx context.Context, ownerID, id, patientID uuid.UUID) (bool, error)
}

// CaseStore is the slice of the case repository the patient service reads
// from.
type CaseStore interface {
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*cases.Case, error)
	CountByStatus(ctx context.Context, ownerID uuid.UUID, status string) (int, error)
}

// NoteStore is the slice of the visit note repository the patient service
// uses.
type NoteStore interface {
	Create(ctx context.Context, ownerID uuid.UUID, n *visitnote.VisitNote) (*visitnote.VisitNote, error)
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*visitnote.VisitNote, error)
}
