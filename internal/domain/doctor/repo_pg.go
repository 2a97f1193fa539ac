package doctor

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caretrack/caretrack/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const profileCols = `user_id, display_name, title, department, avatar_path, updated_at`

func (r *repoPG) GetByUser(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx,
		`SELECT `+profileCols+` FROM doctors WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.DisplayName, &p.Title, &p.Department, &p.AvatarPath, &p.UpdatedAt)
	if err != nil {
		return nil, db.Scoped(err)
	}
	return &p, nil
}

func (r *repoPG) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (user_id, display_name, title, department, avatar_path, updated_at)
		VALUES ($1,$2,$3,$4,$5, now())
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			title = EXCLUDED.title,
			department = EXCLUDED.department,
			avatar_path = EXCLUDED.avatar_path,
			updated_at = now()
		RETURNING `+profileCols,
		p.UserID, p.DisplayName, p.Title, p.Department, p.AvatarPath).
		Scan(&p.UserID, &p.DisplayName, &p.Title, &p.Department, &p.AvatarPath, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
