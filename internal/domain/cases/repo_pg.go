package cases

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

const caseCols = `c.id, c.user_id, c.patient_id, c.status, c.admit_type, c.admit_reason, c.diagnosis,
	c.attachment_path, c.started_at, c.created_at,
	p.id, p.first_name, p.last_name, p.dob`

const caseJoin = `FROM cases c
	JOIN patients p ON p.id = c.patient_id`

func scanCase(row pgx.Row) (*Case, error) {
	var cs Case
	var ps PatientSummary
	err := row.Scan(&cs.ID, &cs.UserID, &cs.PatientID, &cs.Status, &cs.AdmitType, &cs.AdmitReason, &cs.Diagnosis,
		&cs.AttachmentPath, &cs.StartedAt, &cs.CreatedAt,
		&ps.ID, &ps.FirstName, &ps.LastName, &ps.DOB)
	if err != nil {
		return nil, err
	}
	cs.Patient = &ps
	return &cs, nil
}

func (r *repoPG) List(ctx context.Context, ownerID uuid.UUID, f ListFilter, limit, offset int) ([]*Case, int, error) {
	where := ` WHERE c.user_id = $1`
	args := []interface{}{ownerID}
	idx := 2

	switch f.Status {
	case "", "All":
	case StatusOpen:
		where += fmt.Sprintf(` AND c.status IN ($%d, $%d)`, idx, idx+1)
		args = append(args, StatusActive, StatusUpcoming)
		idx += 2
	default:
		where += fmt.Sprintf(` AND c.status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.AdmitType != "" && f.AdmitType != "All" {
		where += fmt.Sprintf(` AND c.admit_type = $%d`, idx)
		args = append(args, f.AdmitType)
		idx++
	}
	if f.PatientID != "" {
		where += fmt.Sprintf(` AND c.patient_id = $%d`, idx)
		args = append(args, f.PatientID)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(` AND (c.diagnosis ILIKE $%d OR c.admit_reason ILIKE $%d)`, idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cases c`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + caseCols + ` ` + caseJoin + where +
		fmt.Sprintf(` ORDER BY c.started_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectCases(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Case, error) {
	cs, err := scanCase(r.pool.QueryRow(ctx,
		`SELECT `+caseCols+` `+caseJoin+` WHERE c.id = $1 AND c.user_id = $2`, id, ownerID))
	if err != nil {
		return nil, db.Scoped(err)
	}
	return cs, nil
}

func (r *repoPG) Create(ctx context.Context, ownerID uuid.UUID, cs *Case) (*Case, error) {
	cs.ID = uuid.New()
	if cs.Status == "" {
		cs.Status = StatusActive
	}
	if cs.AdmitType == "" {
		cs.AdmitType = AdmitRoutine
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cases (id, user_id, patient_id, status, admit_type, admit_reason, diagnosis, attachment_path, started_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, COALESCE($9, now()))`,
		cs.ID, ownerID, cs.PatientID, cs.Status, cs.AdmitType, cs.AdmitReason, cs.Diagnosis, cs.AttachmentPath,
		nullableTime(cs.StartedAt))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, ownerID, cs.ID)
}

func (r *repoPG) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateInput) (*Case, error) {
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

	if in.Status != nil {
		add("status", *in.Status)
	}
	if in.AdmitType != nil {
		add("admit_type", *in.AdmitType)
	}
	if in.AdmitReason != nil {
		add("admit_reason", *in.AdmitReason)
	}
	if in.Diagnosis != nil {
		add("diagnosis", *in.Diagnosis)
	}
	if in.AttachmentURL != nil {
		if *in.AttachmentURL == "" {
			add("attachment_path", nil)
		} else {
			add("attachment_path", *in.AttachmentURL)
		}
	}
	if in.StartedAt != nil {
		t, err := validate.ParseDate(*in.StartedAt)
		if err != nil {
			return nil, err
		}
		add("started_at", t)
	}

	if set == "" {
		return r.GetByID(ctx, ownerID, id)
	}

	query := fmt.Sprintf(`UPDATE cases SET %s WHERE id = $%d AND user_id = $%d`, set, idx, idx+1)
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

func (r *repoPG) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status string) (*Case, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cases SET status = $3 WHERE id = $1 AND user_id = $2`, id, ownerID, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, db.ErrNotFound
	}
	return r.GetByID(ctx, ownerID, id)
}

// Delete removes the case together with its notes and detaches its
// appointments, all in one transaction.
func (r *repoPG) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM visit_notes WHERE case_id = $1 AND user_id = $2`, id, ownerID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE appointments SET case_id = NULL WHERE case_id = $1 AND user_id = $2`, id, ownerID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM cases WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *repoPG) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*Case, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.user_id, c.patient_id, c.status, c.admit_type, c.admit_reason, c.diagnosis,
			c.attachment_path, c.started_at, c.created_at
		FROM cases c
		WHERE c.patient_id = $1 AND c.user_id = $2
		ORDER BY c.started_at DESC`, patientID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Case
	for rows.Next() {
		var cs Case
		err := rows.Scan(&cs.ID, &cs.UserID, &cs.PatientID, &cs.Status, &cs.AdmitType, &cs.AdmitReason, &cs.Diagnosis,
			&cs.AttachmentPath, &cs.StartedAt, &cs.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, &cs)
	}
	return items, rows.Err()
}

func (r *repoPG) AttachmentPath(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	var path *string
	err := r.pool.QueryRow(ctx,
		`SELECT attachment_path FROM cases WHERE id = $1 AND user_id = $2`, id, ownerID).Scan(&path)
	if err != nil {
		return "", db.Scoped(err)
	}
	if path == nil || *path == "" {
		return "", db.NotFound("Attachment")
	}
	return *path, nil
}

func (r *repoPG) Exists(ctx context.Context, ownerID, caseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1 AND user_id = $2)`, caseID, ownerID).Scan(&exists)
	return exists, err
}

func (r *repoPG) CountByStatus(ctx context.Context, ownerID uuid.UUID, status string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM cases WHERE user_id = $1 AND status = $2`, ownerID, status).Scan(&n)
	return n, err
}

// nullableTime maps the zero time to NULL so the column default applies.
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func collectCases(rows pgx.Rows) ([]*Case, error) {
	var items []*Case
	for rows.Next() {
		cs, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, cs)
	}
	return items, rows.Err()
}
