package visitnote

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists visit notes. Every method is scoped to the owning
// practitioner; a note for another owner's patient is unreachable.
type Repository interface {
	Create(ctx context.Context, ownerID uuid.UUID, n *VisitNote) (*VisitNote, error)
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*VisitNote, error)
	ListByCase(ctx context.Context, ownerID, caseID uuid.UUID) ([]*VisitNote, error)
}
