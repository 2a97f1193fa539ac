package cases

import (
	"time"

	"github.com/google/uuid"

	"github.com/caretrack/caretrack/internal/platform/validate"
)

// Case statuses.
const (
	StatusActive   = "Active"
	StatusUpcoming = "Upcoming"
	StatusClosed   = "Closed"

	// StatusOpen is a list-filter alias covering Active and Upcoming. It is
	// never stored.
	StatusOpen = "Open"
)

// Statuses is the storable case status enum.
var Statuses = []string{StatusActive, StatusUpcoming, StatusClosed}

// Admit types.
const (
	AdmitEmergency = "Emergency"
	AdmitRoutine   = "Routine"
)

// AdmitTypes is the admit type enum.
var AdmitTypes = []string{AdmitEmergency, AdmitRoutine}

// statusTransitions declares the allowed status moves. A closed case may be
// reopened.
var statusTransitions = map[string][]string{
	StatusUpcoming: {StatusActive, StatusClosed},
	StatusActive:   {StatusClosed},
	StatusClosed:   {StatusActive},
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

// PatientSummary is the compact patient join returned with every case.
type PatientSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	DOB       time.Time `json:"dob"`
}

// Case is one clinical episode for a patient.
type Case struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	Status         string    `db:"status" json:"status"`
	AdmitType      string    `db:"admit_type" json:"admit_type"`
	AdmitReason    *string   `db:"admit_reason" json:"admit_reason,omitempty"`
	Diagnosis      *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	AttachmentPath *string   `db:"attachment_path" json:"attachment_path,omitempty"`
	StartedAt      time.Time `db:"started_at" json:"started_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	Patient *PatientSummary `json:"patient,omitempty"`
}

// CreateInput is the payload for opening a case.
type CreateInput struct {
	PatientID     string `json:"patient_id"`
	Status        string `json:"status"`
	AdmitType     string `json:"admit_type"`
	AdmitReason   string `json:"admit_reason"`
	Diagnosis     string `json:"diagnosis"`
	AttachmentURL string `json:"attachment_url"`
	StartedAt     string `json:"started_at"`
}

func (in *CreateInput) Validate() error {
	var v validate.Collector
	v.Required("patient_id", in.PatientID)
	v.UUID("patient_id", in.PatientID)
	v.Enum("status", in.Status, Statuses...)
	v.Enum("admit_type", in.AdmitType, AdmitTypes...)
	v.Date("started_at", in.StartedAt)
	return v.Err()
}

// UpdateInput is the partial payload for editing a case. Omitted fields are
// left untouched. The attachment arrives under its upload name and is stored
// as a plain object path.
type UpdateInput struct {
	Status        *string `json:"status"`
	AdmitType     *string `json:"admit_type"`
	AdmitReason   *string `json:"admit_reason"`
	Diagnosis     *string `json:"diagnosis"`
	AttachmentURL *string `json:"attachment_url"`
	StartedAt     *string `json:"started_at"`
}

func (in *UpdateInput) Validate() error {
	var v validate.Collector
	if in.Status != nil {
		v.EnumRequired("status", *in.Status, Statuses...)
	}
	if in.AdmitType != nil {
		v.EnumRequired("admit_type", *in.AdmitType, AdmitTypes...)
	}
	if in.StartedAt != nil {
		v.Required("started_at", *in.StartedAt)
		v.Date("started_at", *in.StartedAt)
	}
	return v.Err()
}

// ListFilter narrows the case list.
type ListFilter struct {
	Status    string // "", "All" no filter; "Open" matches Active and Upcoming
	AdmitType string // "" or "All" means no filter
	PatientID string // optional exact match
	Search    string // case-insensitive substring over diagnosis or admit_reason
}
