package doctor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/caretrack/caretrack/internal/platform/auth"
	"github.com/caretrack/caretrack/internal/platform/db"
	"github.com/caretrack/caretrack/internal/platform/storage"
)

// Service carries the doctor profile rules.
type Service struct {
	repo   Repository
	signer storage.Signer
	urlTTL time.Duration
	log    zerolog.Logger
}

func NewService(repo Repository, signer storage.Signer, urlTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		signer: signer,
		urlTTL: urlTTL,
		log:    log.With().Str("component", "doctor").Logger(),
	}
}

// Me returns the caller's profile, or nil when none was ever saved.
func (s *Service) Me(ctx context.Context) (*Profile, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// Save upserts the caller's profile. The display name is trimmed; an empty
// result is stored as absent.
func (s *Service) Save(ctx context.Context, in UpsertInput) (*Profile, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}

	p := &Profile{UserID: userID}
	if name := strings.TrimSpace(in.DisplayName); name != "" {
		p.DisplayName = &name
	}
	if in.Title != "" {
		v := in.Title
		p.Title = &v
	}
	if in.Department != "" {
		v := in.Department
		p.Department = &v
	}
	if in.AvatarURL != "" {
		v := in.AvatarURL
		p.AvatarPath = &v
	}

	saved, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID.String()).Msg("doctor profile saved")
	return saved, nil
}

// AvatarURL exchanges the stored avatar path for a short-lived signed URL.
func (s *Service) AvatarURL(ctx context.Context) (string, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return "", err
	}
	p, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if p.AvatarPath == nil || *p.AvatarPath == "" {
		return "", db.NotFound("Avatar")
	}
	return s.signer.SignedURL(*p.AvatarPath, s.urlTTL)
}
