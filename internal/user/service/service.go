package service

import (
	"context"
	"time"

	"github.com/AlibekovAA/jobboard/internal/common/clock"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/common/resilience"
	"github.com/AlibekovAA/jobboard/internal/identity"
	"github.com/AlibekovAA/jobboard/internal/user/domain"
	userrepo "github.com/AlibekovAA/jobboard/internal/user/repository"
)

type UserServiceDeps struct {
	Repo    userrepo.Repository
	Clock   clock.Clock
	Breaker *resilience.CircuitBreaker
	Log     *logger.Logger
}

type UserService struct {
	repo    userrepo.Repository
	clock   clock.Clock
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

func NewUserService(deps UserServiceDeps) *UserService {
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	return &UserService{
		repo:    deps.Repo,
		clock:   deps.Clock,
		breaker: deps.Breaker,
		log:     deps.Log,
	}
}

// Sync records the identity in the user registry.
func (s *UserService) Sync(ctx context.Context, id identity.Identity) error {
	if id.IsAnonymous() {
		return commonerrors.ErrUnauthorized
	}

	user := domain.User{
		ID:        domain.ID(id.UserID),
		Name:      id.Name,
		Image:     id.Image,
		UpdatedAt: s.clock.Now().UTC().Truncate(time.Microsecond),
	}
	if id.Email != "" {
		email := id.Email
		user.Email = &email
	}

	err := s.call(ctx, func(ctx context.Context) error {
		_, err := s.repo.Upsert(ctx, user)
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": id.UserID,
			"action":  "user_sync_failed",
		}).Errorf("user sync failed: %v", err)
		return commonerrors.AsStoreError(err)
	}

	return nil
}

// Profile returns the stored profile of the calling user.
func (s *UserService) Profile(ctx context.Context, id identity.Identity) (domain.User, error) {
	if id.IsAnonymous() {
		return domain.User{}, commonerrors.ErrUnauthorized
	}

	var user domain.User
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.FindByID(ctx, domain.ID(id.UserID))
		return err
	})
	if err != nil {
		if !commonerrors.IsDomainError(err) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": id.UserID,
				"action":  "user_profile_failed",
			}).Errorf("get user profile failed: %v", err)
		}
		return domain.User{}, commonerrors.AsStoreError(err)
	}

	return user, nil
}

func (s *UserService) call(ctx context.Context, fn func(context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Call(ctx, fn)
}
