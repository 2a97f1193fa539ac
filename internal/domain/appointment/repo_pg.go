package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caretrack/caretrack/internal/platform/db"
	"github.com/caretrack/caretrack/internal/platform/validate"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `a.id, a.user_id, a.patient_id, a.case_id, a.scheduled_at, a.status, a.reason, a.created_at,
	p.id, p.first_name, p.last_name, p.dob`

const apptJoin = `FROM appointments a
	JOIN patients p ON p.id = a.patient_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var ps PatientSummary
	err := row.Scan(&a.ID, &a.UserID, &a.PatientID, &a.CaseID, &a.ScheduledAt, &a.Status, &a.Reason, &a.CreatedAt,
		&ps.ID, &ps.FirstName, &ps.LastName, &ps.DOB)
	if err != nil {
		return nil, err
	}
	a.Patient = &ps
	return &a, nil
}

func (r *repoPG) List(ctx context.Context, ownerID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE a.user_id = $1`
	args := []interface{}{ownerID}
	idx := 2

	if f.Status != "" && f.Status != "All" {
		where += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(` AND a.reason ILIKE $%d`, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + apptCols + ` ` + apptJoin + where +
		fmt.Sprintf(` ORDER BY a.scheduled_at ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectAppointments(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` `+apptJoin+` WHERE a.id = $1 AND a.user_id = $2`, id, ownerID))
	if err != nil {
		return nil, db.Scoped(err)
	}
	return a, nil
}

func (r *repoPG) Create(ctx context.Context, ownerID uuid.UUID, a *Appointment) (*Appointment, error) {
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, user_id, patient_id, case_id, scheduled_at, status, reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, ownerID, a.PatientID, a.CaseID, a.ScheduledAt, a.Status, a.Reason)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, ownerID, a.ID)
}

func (r *repoPG) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	set := ``
	var args []interface{}
	idx := 1

	add := func(col string, val interface{}) {
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", col, idx)
		args = append(args, val)
		idx++
	}

	if in.CaseID != nil {
		if *in.CaseID == "" {
			add("case_id", nil)
		} else {
			cid, err := uuid.Parse(*in.CaseID)
			if err != nil {
				return nil, err
			}
			add("case_id", cid)
		}
	}
	if in.ScheduledAt != nil {
		t, err := validate.ParseDate(*in.ScheduledAt)
		if err != nil {
			return nil, err
		}
		add("scheduled_at", t)
	}
	if in.Status != nil {
		add("status", *in.Status)
	}
	if in.Reason != nil {
		add("reason", *in.Reason)
	}

	if set == "" {
		return r.GetByID(ctx, ownerID, id)
	}

	query := fmt.Sprintf(`UPDATE appointments SET %s WHERE id = $%d AND user_id = $%d`, set, idx, idx+1)
	args = append(args, id, ownerID)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, db.ErrNotFound
	}
	return r.GetByID(ctx, ownerID, id)
}

func (r *repoPG) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status string) (*Appointment, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status = $3 WHERE id = $1 AND user_id = $2`, id, ownerID, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, db.ErrNotFound
	}
	return r.GetByID(ctx, ownerID, id)
}

func (r *repoPG) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM appointments WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

const apptCaseCols = `a.id, a.user_id, a.patient_id, a.case_id, a.scheduled_at, a.status, a.reason, a.created_at,
	c.id, c.status, c.started_at`

func (r *repoPG) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCaseCols+`
		FROM appointments a
		LEFT JOIN cases c ON c.id = a.case_id
		WHERE a.patient_id = $1 AND a.user_id = $2
		ORDER BY a.scheduled_at DESC`, patientID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		var a Appointment
		var caseID *uuid.UUID
		var caseStatus *string
		var caseStarted *time.Time
		err := rows.Scan(&a.ID, &a.UserID, &a.PatientID, &a.CaseID, &a.ScheduledAt, &a.Status, &a.Reason, &a.CreatedAt,
			&caseID, &caseStatus, &caseStarted)
		if err != nil {
			return nil, err
		}
		if caseID != nil {
			a.Case = &CaseSummary{ID: *caseID, Status: *caseStatus, StartedAt: *caseStarted}
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByCase(ctx context.Context, ownerID, caseID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.user_id, a.patient_id, a.case_id, a.scheduled_at, a.status, a.reason, a.created_at
		FROM appointments a
		WHERE a.case_id = $1 AND a.user_id = $2
		ORDER BY a.scheduled_at DESC`, caseID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		var a Appointment
		err := rows.Scan(&a.ID, &a.UserID, &a.PatientID, &a.CaseID, &a.ScheduledAt, &a.Status, &a.Reason, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}

func (r *repoPG) ExistsForPatient(ctx context.Context, ownerID, id, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE id = $1 AND patient_id = $2 AND user_id = $3
		)`, id, patientID, ownerID).Scan(&exists)
	return exists, err
}

func (r *repoPG) ExistsForCase(ctx context.Context, ownerID, id, caseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE id = $1 AND case_id = $2 AND user_id = $3
		)`, id, caseID, ownerID).Scan(&exists)
	return exists, err
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
