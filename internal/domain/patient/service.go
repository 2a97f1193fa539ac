package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/caretrack/caretrack/internal/domain/appointment"
	"github.com/caretrack/caretrack/internal/domain/cases"
	"github.com/caretrack/caretrack/internal/domain/visitnote"
	"github.com/caretrack/caretrack/internal/platform/auth"
	"github.com/caretrack/caretrack/internal/platform/db"
	"github.com/caretrack/caretrack/internal/platform/storage"
	"github.com/caretrack/caretrack/internal/platform/validate"
)

// Profile is a patient bundled with everything recorded against them.
type Profile struct {
	Patient      *Patient                   `json:"patient"`
	Appointments []*appointment.Appointment `json:"appointments"`
	Cases        []*cases.Case              `json:"cases"`
	Notes        []*visitnote.VisitNote     `json:"notes"`
}

// Service carries the patient business rules.
type Service struct {
	repo         Repository
	appointments AppointmentStore
	cases        CaseStore
	notes        NoteStore
	signer       storage.Signer
	urlTTL       time.Duration
	log          zerolog.Logger
}

func NewService(repo Repository, appointments AppointmentStore, caseStore CaseStore, notes NoteStore, signer storage.Signer, urlTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		cases:        caseStore,
		notes:        notes,
		signer:       signer,
		urlTTL:       urlTTL,
		log:          log.With().Str("component", "patient").Logger(),
	}
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Patient, int, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, ownerID, f, limit, offset)
}

// Stats snapshots the dashboard counts with one parallel query per figure.
// Counts are clamped at zero against transient races with concurrent writes.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}

	var total, active, closed int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = s.cases.CountByStatus(gctx, ownerID, cases.StatusActive)
		return err
	})
	g.Go(func() error {
		var err error
		closed, err = s.cases.CountByStatus(gctx, ownerID, cases.StatusClosed)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Stats{
		TotalPatients: clamp(total),
		ActiveCases:   clamp(active),
		ClosedCases:   clamp(closed),
	}, nil
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Create registers a patient. When any admission field is present, an
// initial Active case is opened in the same transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := &Patient{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Gender:    in.Gender,
	}
	p.DOB, err = validate.ParseDate(in.DOB)
	if err != nil {
		return nil, err
	}
	p.Phone = optional(in.Phone)
	p.Email = optional(in.Email)
	p.Address = optional(in.Address)
	p.MedicalHistory = optional(in.MedicalHistory)
	p.Allergies = optional(in.Allergies)
	p.AttachmentPath = optional(in.AttachmentURL)

	if !in.HasAdmission() {
		created, err := s.repo.Create(ctx, ownerID, p)
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("patient_id", created.ID.String()).Msg("patient registered")
		return created, nil
	}

	cs := &cases.Case{
		Status:         cases.StatusActive,
		AdmitType:      in.AdmitType,
		AdmitReason:    optional(in.AdmitReason),
		Diagnosis:      optional(in.Diagnosis),
		AttachmentPath: optional(in.AttachmentURL),
	}
	created, createdCase, err := s.repo.CreateWithCase(ctx, ownerID, p, cs)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("patient_id", created.ID.String()).
		Str("case_id", createdCase.ID.String()).
		Msg("patient registered with admission case")
	return created, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// GetProfile returns the patient with their appointments, cases, and notes,
// all newest first.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	prof := &Profile{Patient: p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prof.Appointments, err = s.appointments.ListByPatient(gctx, ownerID, id)
		return err
	})
	g.Go(func() error {
		var err error
		prof.Cases, err = s.cases.ListByPatient(gctx, ownerID, id)
		return err
	})
	g.Go(func() error {
		var err error
		prof.Notes, err = s.notes.ListByPatient(gctx, ownerID, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if prof.Appointments == nil {
		prof.Appointments = []*appointment.Appointment{}
	}
	if prof.Cases == nil {
		prof.Cases = []*cases.Case{}
	}
	if prof.Notes == nil {
		prof.Notes = []*visitnote.VisitNote{}
	}
	return prof, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, ownerID, id, in)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

// AttachmentURL exchanges the patient's stored attachment path for a
// short-lived signed URL.
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

// NoteInput is the payload for recording a note against a patient.
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

// CreateNote appends a visit note to the patient. A supplied appointment
// must belong to the same patient and owner.
func (s *Service) CreateNote(ctx context.Context, id uuid.UUID, in NoteInput) (*visitnote.VisitNote, error) {
	ownerID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.repo.Exists(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, db.NotFound("Patient")
	}

	n := &visitnote.VisitNote{PatientID: id, Note: in.Note}
	if in.AppointmentID != "" {
		apptID, err := uuid.Parse(in.AppointmentID)
		if err != nil {
			return nil, err
		}
		ok, err := s.appointments.ExistsForPatient(ctx, ownerID, apptID, id)
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
