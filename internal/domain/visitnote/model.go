package visitnote

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentSummary is the compact appointment annotation attached to a note.
type AppointmentSummary struct {
	ID          uuid.UUID `json:"id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
}

// CaseSummary is the compact case annotation attached to a note.
type CaseSummary struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// VisitNote is a free-text clinical note attached to a patient and,
// optionally, to a specific case and/or appointment. Notes are append-only:
// there are no update or delete routes.
type VisitNote struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	CaseID        *uuid.UUID `db:"case_id" json:"case_id,omitempty"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Note          string     `db:"note" json:"note"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`

	// Joined annotations, populated on reads.
	Appointment *AppointmentSummary `json:"appointment,omitempty"`
	Case        *CaseSummary        `json:"case,omitempty"`
}
