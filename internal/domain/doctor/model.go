package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the practitioner-facing metadata keyed 1:1 to the auth
// identity.
type Profile struct {
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	DisplayName *string   `db:"display_name" json:"display_name"`
	Title       *string   `db:"title" json:"title"`
	Department  *string   `db:"department" json:"department"`
	AvatarPath  *string   `db:"avatar_path" json:"avatar_path,omitempty"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UpsertInput is the payload for saving the caller's profile. Every save
// overwrites all fields.
type UpsertInput struct {
	DisplayName string `json:"display_name"`
	Title       string `json:"title"`
	Department  string `json:"department"`
	AvatarURL   string `json:"avatar_url"`
}
