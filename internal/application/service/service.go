package service

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/jobboard/internal/application/domain"
	apprepo "github.com/AlibekovAA/jobboard/internal/application/repository"
	"github.com/AlibekovAA/jobboard/internal/common/clock"
	"github.com/AlibekovAA/jobboard/internal/common/constants"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/common/idgen"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/common/resilience"
	"github.com/AlibekovAA/jobboard/internal/events"
	"github.com/AlibekovAA/jobboard/internal/identity"
	jobdomain "github.com/AlibekovAA/jobboard/internal/job/domain"
	"github.com/AlibekovAA/jobboard/internal/observability/metrics"
)

// JobLookup resolves a job id to its view, reporting ErrJobNotFound for
// unknown or malformed ids.
type JobLookup interface {
	GetJobByID(ctx context.Context, id string) (jobdomain.JobView, error)
}

type ApplicationServiceDeps struct {
	Repo        apprepo.Repository
	Jobs        JobLookup
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Publisher   events.Publisher
	Breaker     *resilience.CircuitBreaker
	Log         *logger.Logger
}

type ApplicationService struct {
	repo      apprepo.Repository
	jobs      JobLookup
	clock     clock.Clock
	ids       idgen.Generator
	publisher events.Publisher
	breaker   *resilience.CircuitBreaker
	log       *logger.Logger
}

func NewApplicationService(deps ApplicationServiceDeps) *ApplicationService {
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	if deps.IDGenerator == nil {
		deps.IDGenerator = idgen.NewUUIDGenerator()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	return &ApplicationService{
		repo:      deps.Repo,
		jobs:      deps.Jobs,
		clock:     deps.Clock,
		ids:       deps.IDGenerator,
		publisher: deps.Publisher,
		breaker:   deps.Breaker,
		log:       deps.Log,
	}
}

// Apply records applicant's application for a job. The store's uniqueness
// constraint decides races; the pre-check only gives the common case a
// cheaper answer. Once started, the insert is not abandoned when the client
// goes away.
func (s *ApplicationService) Apply(ctx context.Context, jobID string, applicant identity.Identity) (domain.ApplicationView, error) {
	if applicant.IsAnonymous() {
		return domain.ApplicationView{}, commonerrors.ErrUnauthorized
	}

	fields := logger.Fields{
		"job_id":  jobID,
		"user_id": applicant.UserID,
	}

	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return domain.ApplicationView{}, err
	}

	var exists bool
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		exists, err = s.repo.Exists(ctx, job.ID, applicant.UserID)
		return err
	})
	if err != nil {
		return domain.ApplicationView{}, s.storeError(ctx, fields, "apply_precheck_failed", err)
	}
	if exists {
		return domain.ApplicationView{}, s.duplicate(ctx, fields, "precheck")
	}

	id, err := s.ids.NewID()
	if err != nil {
		s.log.WithFields(ctx, withAction(fields, "apply_id_generation_failed")).Errorf("apply failed: %v", err)
		return domain.ApplicationView{}, commonerrors.ErrInternalError.WithCause(err)
	}

	app := domain.Application{
		ID:        id,
		JobID:     job.ID,
		UserID:    applicant.UserID,
		Status:    domain.StatusPending,
		AppliedAt: s.clock.Now().UTC().Truncate(time.Microsecond),
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DBQueryTimeout)
	defer cancel()

	var created bool
	err = s.call(writeCtx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, app)
		return err
	})
	if err != nil {
		return domain.ApplicationView{}, s.storeError(ctx, fields, "apply_insert_failed", err)
	}
	if !created {
		return domain.ApplicationView{}, s.duplicate(ctx, fields, "constraint")
	}

	metrics.ApplicationsSubmitted.Inc()
	s.log.WithFields(ctx, withAction(fields, "application_submitted")).Info("application submitted")

	events.Emit(ctx, s.publisher, s.log, events.TopicApplicationSubmitted, events.ApplicationSubmitted{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		UserID:        app.UserID,
		Status:        string(app.Status),
	})

	return domain.ApplicationView{
		Application: app,
		Job:         domain.SummaryOf(job.Job),
		PosterName:  job.PosterName,
	}, nil
}

// ListApplicationsForUser returns the user's applications, newest first.
func (s *ApplicationService) ListApplicationsForUser(ctx context.Context, userID string) ([]domain.ApplicationView, error) {
	var views []domain.ApplicationView
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		views, err = s.repo.ListForUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, s.storeError(ctx, logger.Fields{"user_id": userID}, "list_applications_failed", err)
	}
	if views == nil {
		views = []domain.ApplicationView{}
	}
	return views, nil
}

func (s *ApplicationService) duplicate(ctx context.Context, fields logger.Fields, detectedBy string) error {
	metrics.ApplicationsDuplicate.WithLabelValues(detectedBy).Inc()
	s.log.WithFields(ctx, withAction(fields, "apply_duplicate")).Warnf("apply rejected: already applied (%s)", detectedBy)
	return commonerrors.ErrAlreadyApplied
}

func (s *ApplicationService) call(ctx context.Context, fn func(context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Call(ctx, fn)
}

func (s *ApplicationService) storeError(ctx context.Context, fields logger.Fields, action string, err error) error {
	mapped := commonerrors.AsStoreError(err)
	if errors.Is(mapped, commonerrors.ErrStoreUnavailable) {
		s.log.WithFields(ctx, withAction(fields, action)).Errorf("application store call failed: %v", err)
	}
	return mapped
}

func withAction(fields logger.Fields, action string) logger.Fields {
	out := make(logger.Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["action"] = action
	return out
}
