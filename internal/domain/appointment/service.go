package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caretrack/caretrack/internal/platform/auth"
	"github.com/caretrack/caretrack/internal/platform/db"
	"github.com/caretrack/caretrack/internal/platform/validate"
)

// ErrInvalidTransition is returned when a status change is rejected by the
// appointment state machine.
var ErrInvalidTransition = errors.New("invalid status transition")

// Service carries the appointment business rules.
type Service struct {
	repo     Repository
	patients PatientChecker
	cases    CaseChecker
	log      zerolog.Logger
}

func NewService(repo Repository, patients PatientChecker, cases CaseChecker, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		cases:    cases,
		log:      log.With().Str("component", "appointment").Logger(),
	}
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, ownerID, f, limit, offset)
}

// Create schedules an appointment after verifying the referenced patient
// (and case, when linked) belong to the caller.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
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

	a := &Appointment{PatientID: patientID, Status: in.Status}
	if in.CaseID != "" {
		caseID, err := uuid.Parse(in.CaseID)
		if err != nil {
			return nil, err
		}
		ok, err := s.cases.Exists(ctx, ownerID, caseID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, db.NotFound("Case")
		}
		a.CaseID = &caseID
	}

	a.ScheduledAt, err = validate.ParseDate(in.ScheduledAt)
	if err != nil {
		return nil, err
	}
	if in.Reason != "" {
		reason := in.Reason
		a.Reason = &reason
	}

	created, err := s.repo.Create(ctx, ownerID, a)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("appointment_id", created.ID.String()).Msg("appointment scheduled")
	return created, nil
}

// Update edits an appointment. A status change rides through the same
// transition rules as UpdateStatus.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
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
	if in.CaseID != nil && *in.CaseID != "" {
		caseID, err := uuid.Parse(*in.CaseID)
		if err != nil {
			return nil, err
		}
		ok, err := s.cases.Exists(ctx, ownerID, caseID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, db.NotFound("Case")
		}
	}

	return s.repo.Update(ctx, ownerID, id, in)
}

// UpdateStatus moves an appointment through its state machine. An unknown
// status is a validation failure; a known but unreachable one is rejected
// with ErrInvalidTransition.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
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
		Str("appointment_id", id.String()).
		Str("from", current.Status).
		Str("to", status).
		Msg("appointment status changed")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, ownerID, id)
}
