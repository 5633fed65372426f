package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/jobboard/internal/common/clock"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/identity"
	"github.com/AlibekovAA/jobboard/internal/user/domain"
)

type mockUserRepo struct {
	upsertFunc   func(ctx context.Context, user domain.User) (domain.User, error)
	findByIDFunc func(ctx context.Context, id domain.ID) (domain.User, error)
}

func (m *mockUserRepo) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, commonerrors.ErrUserNotFound
}

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func setupUserService(repo *mockUserRepo) *UserService {
	return NewUserService(UserServiceDeps{
		Repo:  repo,
		Clock: clock.NewMockClock(testNow),
		Log:   logger.NewDiscard(),
	})
}

func TestUserService_Sync_MapsIdentity(t *testing.T) {
	var saved domain.User
	repo := &mockUserRepo{upsertFunc: func(_ context.Context, u domain.User) (domain.User, error) {
		saved = u
		return u, nil
	}}
	svc := setupUserService(repo)

	err := svc.Sync(context.Background(), identity.Identity{UserID: "user-a", Name: "Ada", Email: "ada@example.com", Image: "a.png"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved.ID != "user-a" || saved.Name != "Ada" || saved.Image != "a.png" {
		t.Errorf("unexpected user %+v", saved)
	}
	if saved.Email == nil || *saved.Email != "ada@example.com" {
		t.Errorf("expected email to be set, got %v", saved.Email)
	}
	if !saved.UpdatedAt.Equal(testNow) {
		t.Errorf("expected updated at %v, got %v", testNow, saved.UpdatedAt)
	}
}

func TestUserService_Sync_WithheldEmailIsNull(t *testing.T) {
	var saved domain.User
	repo := &mockUserRepo{upsertFunc: func(_ context.Context, u domain.User) (domain.User, error) {
		saved = u
		return u, nil
	}}
	svc := setupUserService(repo)

	if err := svc.Sync(context.Background(), identity.Identity{UserID: "user-b", Name: "Bob"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved.Email != nil {
		t.Errorf("expected nil email, got %q", *saved.Email)
	}
}

func TestUserService_Sync_StoreFailure(t *testing.T) {
	repo := &mockUserRepo{upsertFunc: func(context.Context, domain.User) (domain.User, error) {
		return domain.User{}, errors.New("connection reset")
	}}
	svc := setupUserService(repo)

	err := svc.Sync(context.Background(), identity.Identity{UserID: "user-a"})
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestUserService_Profile(t *testing.T) {
	repo := &mockUserRepo{findByIDFunc: func(_ context.Context, id domain.ID) (domain.User, error) {
		return domain.User{ID: id, Name: "Ada"}, nil
	}}
	svc := setupUserService(repo)

	if _, err := svc.Profile(context.Background(), identity.Identity{}); !errors.Is(err, commonerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for anonymous caller, got %v", err)
	}

	user, err := svc.Profile(context.Background(), identity.Identity{UserID: "user-a"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Name != "Ada" {
		t.Errorf("expected Ada, got %s", user.Name)
	}
}
