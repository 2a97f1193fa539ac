package cases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caretrack/caretrack/internal/domain/appointment"
	"github.com/caretrack/caretrack/internal/domain/visitnote"
	"github.com/caretrack/caretrack/internal/platform/auth"
	"github.com/caretrack/caretrack/internal/platform/db"
	"github.com/caretrack/caretrack/internal/platform/validate"
)

// -- Mock repositories --

type mockRepo struct {
	rows map[uuid.UUID]*Case
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: make(map[uuid.UUID]*Case)}
}

func (m *mockRepo) List(_ context.Context, ownerID uuid.UUID, f ListFilter, limit, offset int) ([]*Case, int, error) {
	var result []*Case
	for _, cs := range m.rows {
		if cs.UserID != ownerID {
			continue
		}
		switch f.Status {
		case "", "All":
		case StatusOpen:
			if cs.Status != StatusActive && cs.Status != StatusUpcoming {
				continue
			}
		default:
			if cs.Status != f.Status {
				continue
			}
		}
		result = append(result, cs)
	}
	return result, len(result), nil
}

func (m *mockRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*Case, error) {
	cs, ok := m.rows[id]
	if !ok || cs.UserID != ownerID {
		return nil, db.ErrNotFound
	}
	return cs, nil
}

func (m *mockRepo) Create(_ context.Context, ownerID uuid.UUID, cs *Case) (*Case, error) {
	cs.ID = uuid.New()
	cs.UserID = ownerID
	if cs.Status == "" {
		cs.Status = StatusActive
	}
	if cs.AdmitType == "" {
		cs.AdmitType = AdmitRoutine
	}
	if cs.StartedAt.IsZero() {
		cs.StartedAt = time.Now()
	}
	cs.CreatedAt = time.Now()
	m.rows[cs.ID] = cs
	return cs, nil
}

func (m *mockRepo) Update(_ context.Context, ownerID, id uuid.UUID, in UpdateInput) (*Case, error) {
	cs, ok := m.rows[id]
	if !ok || cs.UserID != ownerID {
		return nil, db.ErrNotFound
	}
	if in.Status != nil {
		cs.Status = *in.Status
	}
	if in.Diagnosis != nil {
		cs.Diagnosis = in.Diagnosis
	}
	if in.AttachmentURL != nil {
		if *in.AttachmentURL == "" {
			cs.AttachmentPath = nil
		} else {
			cs.AttachmentPath = in.AttachmentURL
		}
	}
	return cs, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, ownerID, id uuid.UUID, status string) (*Case, error) {
	cs, ok := m.rows[id]
	if !ok || cs.UserID != ownerID {
		return nil, db.ErrNotFound
	}
	cs.Status = status
	return cs, nil
}

func (m *mockRepo) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	cs, ok := m.rows[id]
	if !ok || cs.UserID != ownerID {
		return db.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, ownerID, patientID uuid.UUID) ([]*Case, error) {
	var result []*Case
	for _, cs := range m.rows {
		if cs.UserID == ownerID && cs.PatientID == patientID {
			result = append(result, cs)
		}
	}
	return result, nil
}

func (m *mockRepo) AttachmentPath(_ context.Context, ownerID, id uuid.UUID) (string, error) {
	cs, ok := m.rows[id]
	if !ok || cs.UserID != ownerID {
		return "", db.ErrNotFound
	}
	if cs.AttachmentPath == nil || *cs.AttachmentPath == "" {
		return "", db.NotFound("Attachment")
	}
	return *cs.AttachmentPath, nil
}

func (m *mockRepo) Exists(_ context.Context, ownerID, caseID uuid.UUID) (bool, error) {
	cs, ok := m.rows[caseID]
	return ok && cs.UserID == ownerID, nil
}

func (m *mockRepo) CountByStatus(_ context.Context, ownerID uuid.UUID, status string) (int, error) {
	n := 0
	for _, cs := range m.rows {
		if cs.UserID == ownerID && cs.Status == status {
			n++
		}
	}
	return n, nil
}

type mockPatientChecker struct {
	rows map[uuid.UUID]uuid.UUID
}

func newMockPatientChecker() *mockPatientChecker {
	return &mockPatientChecker{rows: make(map[uuid.UUID]uuid.UUID)}
}

func (m *mockPatientChecker) add(owner uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.rows[id] = owner
	return id
}

func (m *mockPatientChecker) Exists(_ context.Context, ownerID, patientID uuid.UUID) (bool, error) {
	owner, ok := m.rows[patientID]
	return ok && owner == ownerID, nil
}

type mockApptStore struct {
	appts map[uuid.UUID]*appointment.Appointment
}

func newMockApptStore() *mockApptStore {
	return &mockApptStore{appts: make(map[uuid.UUID]*appointment.Appointment)}
}

func (m *mockApptStore) add(owner, caseID uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.appts[id] = &appointment.Appointment{ID: id, UserID: owner, CaseID: &caseID}
	return id
}

func (m *mockApptStore) ListByCase(_ context.Context, ownerID, caseID uuid.UUID) ([]*appointment.Appointment, error) {
	var result []*appointment.Appointment
	for _, a := range m.appts {
		if a.UserID == ownerID && a.CaseID != nil && *a.CaseID == caseID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockApptStore) ExistsForCase(_ context.Context, ownerID, id, caseID uuid.UUID) (bool, error) {
	a, ok := m.appts[id]
	return ok && a.UserID == ownerID && a.CaseID != nil && *a.CaseID == caseID, nil
}

type mockNoteStore struct {
	notes []*visitnote.VisitNote
}

func (m *mockNoteStore) Create(_ context.Context, ownerID uuid.UUID, n *visitnote.VisitNote) (*visitnote.VisitNote, error) {
	n.ID = uuid.New()
	n.UserID = ownerID
	n.CreatedAt = time.Now()
	m.notes = append(m.notes, n)
	return n, nil
}

func (m *mockNoteStore) ListByCase(_ context.Context, ownerID, caseID uuid.UUID) ([]*visitnote.VisitNote, error) {
	var result []*visitnote.VisitNote
	for _, n := range m.notes {
		if n.UserID == ownerID && n.CaseID != nil && *n.CaseID == caseID {
			result = append(result, n)
		}
	}
	return result, nil
}

type stubSigner struct{}

func (stubSigner) SignedURL(path string, _ time.Duration) (string, error) {
	return "https://store.example.com/object/sign/file_bucket/" + path + "?expires=1&signature=x", nil
}

type testEnv struct {
	svc      *Service
	repo     *mockRepo
	patients *mockPatientChecker
	appts    *mockApptStore
	notes    *mockNoteStore
	owner    uuid.UUID
	ctx      context.Context
}

func newTestEnv() *testEnv {
	owner := uuid.New()
	repo := newMockRepo()
	patients := newMockPatientChecker()
	appts := newMockApptStore()
	notes := &mockNoteStore{}
	svc := NewService(repo, patients, appts, notes, stubSigner{}, 10*time.Minute, zerolog.Nop())
	return &testEnv{
		svc:      svc,
		repo:     repo,
		patients: patients,
		appts:    appts,
		notes:    notes,
		owner:    owner,
		ctx:      auth.WithUserID(context.Background(), owner),
	}
}

func (env *testEnv) seedCase(status string) *Case {
	cs := &Case{PatientID: uuid.New(), Status: status}
	cs, _ = env.repo.Create(context.Background(), env.owner, cs)
	return cs
}

func TestCreate_Defaults(t *testing.T) {
	env := newTestEnv()
	patientID := env.patients.add(env.owner)

	cs, err := env.svc.Create(env.ctx, CreateInput{PatientID: patientID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Status != StatusActive {
		t.Errorf("expected default Active, got %s", cs.Status)
	}
	if cs.AdmitType != AdmitRoutine {
		t.Errorf("expected default Routine, got %s", cs.AdmitType)
	}
}

func TestCreate_PatientNotOwned(t *testing.T) {
	env := newTestEnv()
	patientID := env.patients.add(uuid.New())

	_, err := env.svc.Create(env.ctx, CreateInput{PatientID: patientID.String()})
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected not-found for foreign patient, got %v", err)
	}
}

func TestGet_Detail(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusActive)
	env.appts.add(env.owner, cs.ID)
	env.notes.Create(context.Background(), env.owner, &visitnote.VisitNote{
		PatientID: cs.PatientID, CaseID: &cs.ID, Note: "first visit",
	})

	detail, err := env.svc.Get(env.ctx, cs.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Case.ID != cs.ID {
		t.Errorf("wrong case returned")
	}
	if len(detail.Appointments) != 1 {
		t.Errorf("expected 1 appointment, got %d", len(detail.Appointments))
	}
	if len(detail.Notes) != 1 {
		t.Errorf("expected 1 note, got %d", len(detail.Notes))
	}
}

func TestGet_EmptySlicesNotNil(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusActive)

	detail, err := env.svc.Get(env.ctx, cs.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Appointments == nil || detail.Notes == nil {
		t.Error("detail slices should be empty, not null")
	}
}

func TestUpdateStatus_Reopen(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusClosed)

	updated, err := env.svc.UpdateStatus(env.ctx, cs.ID, StatusActive)
	if err != nil {
		t.Fatalf("reopening a closed case should be allowed: %v", err)
	}
	if updated.Status != StatusActive {
		t.Errorf("expected Active, got %s", updated.Status)
	}
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusActive)

	_, err := env.svc.UpdateStatus(env.ctx, cs.ID, StatusUpcoming)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusActive)

	_, err := env.svc.UpdateStatus(env.ctx, cs.ID, "Paused")
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Errorf("unknown status should fail validation, got %v", err)
	}
}

func TestAttachmentURL(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusActive)
	path := "attachments/report.pdf"
	cs.AttachmentPath = &path

	url, err := env.svc.AttachmentURL(env.ctx, cs.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url == "" {
		t.Error("expected non-empty url")
	}
}

func TestAttachmentURL_NoAttachment(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusActive)

	_, err := env.svc.AttachmentURL(env.ctx, cs.ID)
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestCreateNote_PropagatesPatient(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusActive)

	n, err := env.svc.CreateNote(env.ctx, cs.ID, NoteInput{Note: "stable overnight"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.PatientID != cs.PatientID {
		t.Errorf("note should inherit the case's patient")
	}
	if n.CaseID == nil || *n.CaseID != cs.ID {
		t.Errorf("note should link back to the case")
	}
}

func TestCreateNote_AppointmentFromOtherCase(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusActive)
	other := env.seedCase(StatusActive)
	apptID := env.appts.add(env.owner, other.ID)

	_, err := env.svc.CreateNote(env.ctx, cs.ID, NoteInput{
		Note:          "misfiled",
		AppointmentID: apptID.String(),
	})
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected not-found for appointment outside the case, got %v", err)
	}
	if len(env.notes.notes) != 0 {
		t.Error("no note should be persisted on failure")
	}
}

func TestCreateNote_EmptyNote(t *testing.T) {
	env := newTestEnv()
	cs := env.seedCase(StatusActive)

	_, err := env.svc.CreateNote(env.ctx, cs.ID, NoteInput{Note: "  "})
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Errorf("expected validation error, got %v", err)
	}
}
