package visitnote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caretrack/caretrack/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const noteCols = `n.id, n.user_id, n.patient_id, n.case_id, n.appointment_id, n.note, n.created_at,
	a.id, a.scheduled_at, a.status,
	c.id, c.status, c.started_at`

const noteJoins = `FROM visit_notes n
	LEFT JOIN appointments a ON a.id = n.appointment_id
	LEFT JOIN cases c ON c.id = n.case_id`

func scanNote(row pgx.Row) (*VisitNote, error) {
	var n VisitNote
	var apptID *uuid.UUID
	var apptAt *time.Time
	var apptStatus *string
	var caseID *uuid.UUID
	var caseStatus *string
	var caseStarted *time.Time

	err := row.Scan(&n.ID, &n.UserID, &n.PatientID, &n.CaseID, &n.AppointmentID, &n.Note, &n.CreatedAt,
		&apptID, &apptAt, &apptStatus,
		&caseID, &caseStatus, &caseStarted)
	if err != nil {
		return nil, err
	}
	if apptID != nil {
		n.Appointment = &AppointmentSummary{ID: *apptID, ScheduledAt: *apptAt, Status: *apptStatus}
	}
	if caseID != nil {
		n.Case = &CaseSummary{ID: *caseID, Status: *caseStatus, StartedAt: *caseStarted}
	}
	return &n, nil
}

func (r *repoPG) Create(ctx context.Context, ownerID uuid.UUID, n *VisitNote) (*VisitNote, error) {
	n.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO visit_notes (id, user_id, patient_id, case_id, appointment_id, note)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, ownerID, n.PatientID, n.CaseID, n.AppointmentID, n.Note)
	if err != nil {
		return nil, err
	}

	created, err := scanNote(r.pool.QueryRow(ctx,
		`SELECT `+noteCols+` `+noteJoins+` WHERE n.id = $1 AND n.user_id = $2`, n.ID, ownerID))
	if err != nil {
		return nil, db.Scoped(err)
	}
	return created, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*VisitNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteCols+` `+noteJoins+`
		WHERE n.patient_id = $1 AND n.user_id = $2
		ORDER BY n.created_at DESC`, patientID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *repoPG) ListByCase(ctx context.Context, ownerID, caseID uuid.UUID) ([]*VisitNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteCols+` `+noteJoins+`
		WHERE n.case_id = $1 AND n.user_id = $2
		ORDER BY n.created_at DESC`, caseID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

func collectNotes(rows pgx.Rows) ([]*VisitNote, error) {
	var notes []*VisitNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
