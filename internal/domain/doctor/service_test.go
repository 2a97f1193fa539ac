package doctor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caretrack/caretrack/internal/platform/auth"
	"github.com/caretrack/caretrack/internal/platform/db"
)

type mockRepo struct {
	profiles map[uuid.UUID]*Profile
}

func newMockRepo() *mockRepo {
	return &mockRepo{profiles: make(map[uuid.UUID]*Profile)}
}

func (m *mockRepo) GetByUser(_ context.Context, userID uuid.UUID) (*Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Upsert(_ context.Context, p *Profile) (*Profile, error) {
	p.UpdatedAt = time.Now()
	m.profiles[p.UserID] = p
	return p, nil
}

type stubSigner struct{}

func (stubSigner) SignedURL(path string, _ time.Duration) (string, error) {
	return "https://store.example.com/object/sign/file_bucket/" + path + "?expires=1&signature=x", nil
}

func newTestEnv() (*Service, context.Context, uuid.UUID) {
	owner := uuid.New()
	svc := NewService(newMockRepo(), stubSigner{}, 10*time.Minute, zerolog.Nop())
	return svc, auth.WithUserID(context.Background(), owner), owner
}

func TestMe_NeverSaved(t *testing.T) {
	svc, ctx, _ := newTestEnv()
	p, err := svc.Me(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil profile, got %+v", p)
	}
}

func TestSave_ThenMe(t *testing.T) {
	svc, ctx, owner := newTestEnv()

	saved, err := svc.Save(ctx, UpsertInput{DisplayName: "Dr. Chen", Title: "Attending", Department: "Cardiology"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.UserID != owner {
		t.Error("profile not keyed to caller")
	}

	p, err := svc.Me(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || p.DisplayName == nil || *p.DisplayName != "Dr. Chen" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestSave_TrimsDisplayName(t *testing.T) {
	svc, ctx, _ := newTestEnv()

	saved, err := svc.Save(ctx, UpsertInput{DisplayName: "  Dr. Chen  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.DisplayName == nil || *saved.DisplayName != "Dr. Chen" {
		t.Errorf("display name not trimmed: %+v", saved.DisplayName)
	}
}

func TestSave_BlankDisplayNameStoredAbsent(t *testing.T) {
	svc, ctx, _ := newTestEnv()

	saved, err := svc.Save(ctx, UpsertInput{DisplayName: "   ", Title: "Resident"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.DisplayName != nil {
		t.Errorf("blank display name should be stored as absent, got %q", *saved.DisplayName)
	}
}

func TestSave_OverwritesPrevious(t *testing.T) {
	svc, ctx, _ := newTestEnv()

	svc.Save(ctx, UpsertInput{DisplayName: "Dr. Chen", Title: "Resident"})
	saved, err := svc.Save(ctx, UpsertInput{DisplayName: "Dr. Chen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Title != nil {
		t.Error("upsert should overwrite omitted fields")
	}
}

func TestAvatarURL(t *testing.T) {
	svc, ctx, _ := newTestEnv()
	svc.Save(ctx, UpsertInput{DisplayName: "Dr. Chen", AvatarURL: "avatars/chen.png"})

	url, err := svc.AvatarURL(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url == "" {
		t.Error("expected non-empty url")
	}
}

func TestAvatarURL_NoAvatar(t *testing.T) {
	svc, ctx, _ := newTestEnv()
	svc.Save(ctx, UpsertInput{DisplayName: "Dr. Chen"})

	if _, err := svc.AvatarURL(ctx); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	svc, _, _ := newTestEnv()
	if _, err := svc.Me(context.Background()); !errors.Is(err, auth.ErrNoUser) {
		t.Errorf("expected ErrNoUser, got %v", err)
	}
}
