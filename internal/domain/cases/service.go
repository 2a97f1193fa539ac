package cases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caretrack/caretrack/internal/domain/appointment"
	"github.com/caretrack/caretrack/internal/domain/visitnote"
	"github.com/caretrack/caretrack/internal/platform/auth"
	"github.com/caretrack/caretrack/internal/platform/db"
	"github.com/caretrack/caretrack/internal/platform/storage"
	"github.com/caretrack/caretrack/internal/platform/validate"
)

// ErrInvalidTransition is returned when a status change is rejected by the
// case state machine.
var ErrInvalidTransition = errors.New("invalid status transition")

// AppointmentStore is the slice of the appointment repository the case
// service reads from.
type AppointmentStore interface {
	ListByCase(ctx context.Context, ownerID, caseID uuid.UUID) ([]*appointment.Appointment, error)
	ExistsForCase(ctx context.Context, ownerID, id, caseID uuid.UUID) (bool, error)
}

// NoteStore is the slice of the visit note repository the case service uses.
type NoteStore interface {
	Create(ctx context.Context, ownerID uuid.UUID, n *visitnote.VisitNote) (*visitnote.VisitNote, error)
	ListByCase(ctx context.Context, ownerID, caseID uuid.UUID) ([]*visitnote.VisitNote, error)
}

// Detail is a case bundled with its appointments and notes.
type Detail struct {
	Case         *Case                      `json:"case"`
	Appointments []*appointment.Appointment `json:"appointments"`
	Notes        []*visitnote.VisitNote     `json:"notes"`
}

// Service carries the case business rules.
type Service struct {
	repo         Repository
	patients     PatientChecker
	appointments AppointmentStore
	notes        NoteStore
	signer       storage.Signer
	urlTTL       time.Duration
	log          zerolog.Logger
}

func NewService(repo Repository, patients PatientChecker, appointments AppointmentStore, notes NoteStore, signer storage.Signer, urlTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		patients:     patients,
		appointments: appointments,
		notes:        notes,
		signer:       signer,
		urlTTL:       urlTTL,
		log:          log.With().Str("component", "cases").Logger(),
	}
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Case, int, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, 0, err
	}
	if f.PatientID != "" {
		if _, err := uuid.Parse(f.PatientID); err != nil {
			var v validate.Collector
			v.Add("patient_id", "must be a valid uuid")
			return nil, 0, v.Err()
		}
	}
	return s.repo.List(ctx, ownerID, f, limit, offset)
}

// Get returns the case with its appointments and notes.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}

	cs, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	appts, err := s.appointments.ListByCase(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByCase(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if appts == nil {
		appts = []*appointment.Appointment{}
	}
	if notes == nil {
		notes = []*visitnote.VisitNote{}
	}
	return &Detail{Case: cs, Appointments: appts, Notes: notes}, nil
}

// Create opens a case after verifying the patient belongs to the caller.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Case, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(in.PatientID)
	if err != nil {
		return nil, err
	}
	ok, err := s.patients.Exists(ctx, ownerID, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, db.NotFound("Patient")
	}

	cs := &Case{
		PatientID: patientID,
		Status:    in.Status,
		AdmitType: in.AdmitType,
	}
	if in.AdmitReason != "" {
		v := in.AdmitReason
		cs.AdmitReason = &v
	}
	if in.Diagnosis != "" {
		v := in.Diagnosis
		cs.Diagnosis = &v
	}
	if in.AttachmentURL != "" {
		v := in.AttachmentURL
		cs.AttachmentPath = &v
	}
	if in.StartedAt != "" {
		cs.StartedAt, err = validate.ParseDate(in.StartedAt)
		if err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, ownerID, cs)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("case_id", created.ID.String()).
		Str("patient_id", patientID.String()).
		Msg("case opened")
	return created, nil
}

// Update edits a case. A status change rides through the same transition
// rules as UpdateStatus.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Case, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !CanTransition(current.Status, *in.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, *in.Status)
	}
	return s.repo.Update(ctx, ownerID, id, in)
}

// UpdateStatus moves a case through its state machine. An unknown status is
// a validation failure; a known but unreachable one is rejected with
// ErrInvalidTransition.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Case, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}

	var v validate.Collector
	v.Required("status", status)
	v.Enum("status", status, Statuses...)
	if err := v.Err(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, ownerID, id, status)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("case_id", id.String()).
		Str("from", current.Status).
		Str("to", status).
		Msg("case status changed")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Info().Str("case_id", id.String()).Msg("case deleted")
	return nil
}

// AttachmentURL exchanges the case's stored attachment path for a short-lived
// signed URL.
func (s *Service) AttachmentURL(ctx context.Context, id uuid.UUID) (string, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return "", err
	}
	path, err := s.repo.AttachmentPath(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	return s.signer.SignedURL(path, s.urlTTL)
}

// NoteInput is the payload for recording a note against a case.
type NoteInput struct {
	Note          string `json:"note"`
	AppointmentID string `json:"appointment_id"`
}

func (in *NoteInput) Validate() error {
	var v validate.Collector
	v.Required("note", in.Note)
	v.UUID("appointment_id", in.AppointmentID)
	return v.Err()
}

// CreateNote appends a visit note to the case, propagating the case's
// patient. A supplied appointment must belong to the same case and owner.
func (s *Service) CreateNote(ctx context.Context, id uuid.UUID, in NoteInput) (*visitnote.VisitNote, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	cs, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	n := &visitnote.VisitNote{
		PatientID: cs.PatientID,
		CaseID:    &cs.ID,
		Note:      in.Note,
	}
	if in.AppointmentID != "" {
		apptID, err := uuid.Parse(in.AppointmentID)
		if err != nil {
			return nil, err
		}
		ok, err := s.appointments.ExistsForCase(ctx, ownerID, apptID, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, db.NotFound("Appointment")
		}
		n.AppointmentID = &apptID
	}

	return s.notes.Create(ctx, ownerID, n)
}
