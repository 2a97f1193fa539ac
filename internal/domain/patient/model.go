package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/caretrack/caretrack/internal/platform/validate"
)

// Genders.
const (
	GenderMale    = "Male"
	GenderFemale  = "Female"
	GenderOther   = "Other"
	GenderUnknown = "Unknown"
)

// Genders is the gender enum.
var Genders = []string{GenderMale, GenderFemale, GenderOther, GenderUnknown}

// Patient is a person under the caller's care.
type Patient struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	DOB            time.Time `db:"dob" json:"dob"`
	Gender         string    `db:"gender" json:"gender"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Address        *string   `db:"address" json:"address,omitempty"`
	MedicalHistory *string   `db:"medical_history" json:"medical_history,omitempty"`
	Allergies      *string   `db:"allergies" json:"allergies,omitempty"`
	AttachmentPath *string   `db:"attachment_path" json:"attachment_path,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CreateInput is the payload for registering a patient. The admission fields
// are not stored on the patient; any of them present opens an initial case
// alongside the patient row.
type CreateInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DOB            string `json:"dob"`
	Gender         string `json:"gender"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	MedicalHistory string `json:"medical_history"`
	Allergies      string `json:"allergies"`

	AdmitType     string `json:"admit_type"`
	AdmitReason   string `json:"admit_reason"`
	Diagnosis     string `json:"diagnosis"`
	AttachmentURL string `json:"attachment_url"`
}

func (in *CreateInput) Validate() error {
	var v validate.Collector
	v.Required("first_name", in.FirstName)
	v.Required("last_name", in.LastName)
	v.Required("dob", in.DOB)
	v.Date("dob", in.DOB)
	v.Enum("gender", in.Gender, Genders...)
	v.Email("email", in.Email)
	if in.AdmitType != "" {
		v.Enum("admit_type", in.AdmitType, "Emergency", "Routine")
	}
	return v.Err()
}

// HasAdmission reports whether any admission field is populated, which
// triggers the auto-case side effect.
func (in *CreateInput) HasAdmission() bool {
	return in.AdmitType != "" || in.AdmitReason != "" || in.Diagnosis != "" || in.AttachmentURL != ""
}

// UpdateInput is the partial payload for editing demographics. Omitted
// fields are left untouched.
type UpdateInput struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	DOB            *string `json:"dob"`
	Gender         *string `json:"gender"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Address        *string `json:"address"`
	MedicalHistory *string `json:"medical_history"`
	Allergies      *string `json:"allergies"`
	AttachmentURL  *string `json:"attachment_url"`
}

func (in *UpdateInput) Validate() error {
	var v validate.Collector
	if in.FirstName != nil {
		v.Required("first_name", *in.FirstName)
	}
	if in.LastName != nil {
		v.Required("last_name", *in.LastName)
	}
	if in.DOB != nil {
		v.Required("dob", *in.DOB)
		v.Date("dob", *in.DOB)
	}
	if in.Gender != nil {
		v.EnumRequired("gender", *in.Gender, Genders...)
	}
	if in.Email != nil {
		v.Email("email", *in.Email)
	}
	return v.Err()
}

// ListFilter narrows the patient list.
type ListFilter struct {
	Search string // case-insensitive substring over first, last, or full name
}

// Stats is the dashboard snapshot.
type Stats struct {
	TotalPatients int `json:"total_patients"`
	ActiveCases   int `json:"active_cases"`
	ClosedCases   int `json:"closed_cases"`
}
