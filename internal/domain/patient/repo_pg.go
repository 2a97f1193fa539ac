package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caretrack/caretrack/internal/domain/cases"
	"github.com/caretrack/caretrack/internal/platform/db"
	"github.com/caretrack/caretrack/internal/platform/validate"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const patientCols = `id, user_id, first_name, last_name, dob, gender, phone, email, address,
	medical_history, allergies, attachment_path, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.DOB, &p.Gender, &p.Phone, &p.Email, &p.Address,
		&p.MedicalHistory, &p.Allergies, &p.AttachmentPath, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) List(ctx context.Context, ownerID uuid.UUID, f ListFilter, limit, offset int) ([]*Patient, int, error) {
	where := ` WHERE user_id = $1`
	args := []interface{}{ownerID}
	idx := 2

	if f.Search != "" {
		// The concatenated clause lets a term span the name boundary, e.g.
		// "ane do" finds "Jane Doe".
		where += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR first_name || ' ' || last_name ILIKE $%d)`, idx, idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + patientCols + ` FROM patients` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1 AND user_id = $2`, id, ownerID))
	if err != nil {
		return nil, db.Scoped(err)
	}
	return p, nil
}

const insertPatientSQL = `
	INSERT INTO patients (id, user_id, first_name, last_name, dob, gender, phone, email, address,
		medical_history, allergies, attachment_path)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

func (r *repoPG) Create(ctx context.Context, ownerID uuid.UUID, p *Patient) (*Patient, error) {
	p.ID = uuid.New()
	if p.Gender == "" {
		p.Gender = GenderUnknown
	}
	_, err := r.pool.Exec(ctx, insertPatientSQL,
		p.ID, ownerID, p.FirstName, p.LastName, p.DOB, p.Gender, p.Phone, p.Email, p.Address,
		p.MedicalHistory, p.Allergies, p.AttachmentPath)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, ownerID, p.ID)
}

// CreateWithCase writes the patient and its admission case atomically.
func (r *repoPG) CreateWithCase(ctx context.Context, ownerID uuid.UUID, p *Patient, cs *cases.Case) (*Patient, *cases.Case, error) {
	p.ID = uuid.New()
	if p.Gender == "" {
		p.Gender = GenderUnknown
	}
	cs.ID = uuid.New()
	cs.PatientID = p.ID
	if cs.Status == "" {
		cs.Status = cases.StatusActive
	}
	if cs.AdmitType == "" {
		cs.AdmitType = cases.AdmitRoutine
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertPatientSQL,
		p.ID, ownerID, p.FirstName, p.LastName, p.DOB, p.Gender, p.Phone, p.Email, p.Address,
		p.MedicalHistory, p.Allergies, p.AttachmentPath)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cases (id, user_id, patient_id, status, admit_type, admit_reason, diagnosis, attachment_path, started_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now())`,
		cs.ID, ownerID, cs.PatientID, cs.Status, cs.AdmitType, cs.AdmitReason, cs.Diagnosis, cs.AttachmentPath)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	created, err := r.GetByID(ctx, ownerID, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, cs, nil
}

func (r *repoPG) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateInput) (*Patient, error) {
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

	if in.FirstName != nil {
		add("first_name", *in.FirstName)
	}
	if in.LastName != nil {
		add("last_name", *in.LastName)
	}
	if in.DOB != nil {
		t, err := validate.ParseDate(*in.DOB)
		if err != nil {
			return nil, err
		}
		add("dob", t)
	}
	if in.Gender != nil {
		add("gender", *in.Gender)
	}
	if in.Phone != nil {
		add("phone", *in.Phone)
	}
	if in.Email != nil {
		add("email", *in.Email)
	}
	if in.Address != nil {
		add("address", *in.Address)
	}
	if in.MedicalHistory != nil {
		add("medical_history", *in.MedicalHistory)
	}
	if in.Allergies != nil {
		add("allergies", *in.Allergies)
	}
	if in.AttachmentURL != nil {
		if *in.AttachmentURL == "" {
			add("attachment_path", nil)
		} else {
			add("attachment_path", *in.AttachmentURL)
		}
	}

	if set == "" {
		return r.GetByID(ctx, ownerID, id)
	}

	query := fmt.Sprintf(`UPDATE patients SET %s WHERE id = $%d AND user_id = $%d`, set, idx, idx+1)
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

// Delete removes the patient and everything hanging off it in one
// transaction: notes first, then appointments, then cases, then the row.
func (r *repoPG) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM visit_notes WHERE patient_id = $1 AND user_id = $2`,
		`DELETE FROM appointments WHERE patient_id = $1 AND user_id = $2`,
		`DELETE FROM cases WHERE patient_id = $1 AND user_id = $2`,
	} {
		if _, err := tx.Exec(ctx, stmt, id, ownerID); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM patients WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *repoPG) AttachmentPath(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	var path *string
	err := r.pool.QueryRow(ctx,
		`SELECT attachment_path FROM patients WHERE id = $1 AND user_id = $2`, id, ownerID).Scan(&path)
	if err != nil {
		return "", db.Scoped(err)
	}
	if path == nil || *path == "" {
		return "", db.NotFound("Attachment")
	}
	return *path, nil
}

func (r *repoPG) Exists(ctx context.Context, ownerID, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1 AND user_id = $2)`, patientID, ownerID).Scan(&exists)
	return exists, err
}

func (r *repoPG) Count(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM patients WHERE user_id = $1`, ownerID).Scan(&n)
	return n, err
}
