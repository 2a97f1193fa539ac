package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/caretrack/caretrack/internal/platform/validate"
)

// Appointment statuses.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

// Statuses is the full appointment status enum.
var Statuses = []string{StatusScheduled, StatusCompleted, StatusCancelled}

// statusTransitions declares the allowed status moves. Completed and
// Cancelled are terminal.
var statusTransitions = map[string][]string{
	StatusScheduled: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether status from may move to to.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// PatientSummary is the compact patient join returned with every appointment.
type PatientSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	DOB       time.Time `json:"dob"`
}

// CaseSummary annotates an appointment with its linked case, when any.
type CaseSummary struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// Appointment is a scheduled encounter, optionally linked to a case.
type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	CaseID      *uuid.UUID `db:"case_id" json:"case_id,omitempty"`
	ScheduledAt time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status      string     `db:"status" json:"status"`
	Reason      *string    `db:"reason" json:"reason,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`

	Patient *PatientSummary `json:"patient,omitempty"`
	Case    *CaseSummary    `json:"case,omitempty"`
}

// CreateInput is the payload for scheduling an appointment.
type CreateInput struct {
	PatientID   string `json:"patient_id"`
	CaseID      string `json:"case_id"`
	ScheduledAt string `json:"scheduled_at"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
}

func (in *CreateInput) Validate() error {
	var v validate.Collector
	v.Required("patient_id", in.PatientID)
	v.UUID("patient_id", in.PatientID)
	v.UUID("case_id", in.CaseID)
	v.Required("scheduled_at", in.ScheduledAt)
	v.Date("scheduled_at", in.ScheduledAt)
	v.Enum("status", in.Status, Statuses...)
	return v.Err()
}

// UpdateInput is the partial payload for editing or rescheduling an
// appointment. Omitted fields are left untouched.
type UpdateInput struct {
	CaseID      *string `json:"case_id"`
	ScheduledAt *string `json:"scheduled_at"`
	Status      *string `json:"status"`
	Reason      *string `json:"reason"`
}

func (in *UpdateInput) Validate() error {
	var v validate.Collector
	if in.CaseID != nil {
		v.UUID("case_id", *in.CaseID)
	}
	if in.ScheduledAt != nil {
		v.Required("scheduled_at", *in.ScheduledAt)
		v.Date("scheduled_at", *in.ScheduledAt)
	}
	if in.Status != nil {
		v.EnumRequired("status", *in.Status, Statuses...)
	}
	return v.Err()
}

// ListFilter narrows the appointment list.
type ListFilter struct {
	Status string // "" or "All" means no filter
	Search string // case-insensitive substring over reason
}
