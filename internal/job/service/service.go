package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/AlibekovAA/jobboard/internal/common/clock"
	"github.com/AlibekovAA/jobboard/internal/common/constants"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/common/idgen"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/common/resilience"
	"github.com/AlibekovAA/jobboard/internal/events"
	"github.com/AlibekovAA/jobboard/internal/identity"
	"github.com/AlibekovAA/jobboard/internal/job/domain"
	jobrepo "github.com/AlibekovAA/jobboard/internal/job/repository"
	"github.com/AlibekovAA/jobboard/internal/observability/metrics"
	"github.com/AlibekovAA/jobboard/internal/search"
)

type JobServiceDeps struct {
	Repo        jobrepo.Repository
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Publisher   events.Publisher
	Breaker     *resilience.CircuitBreaker
	Log         *logger.Logger
}

type JobService struct {
	repo      jobrepo.Repository
	clock     clock.Clock
	ids       idgen.Generator
	publisher events.Publisher
	breaker   *resilience.CircuitBreaker
	validator *JobValidator
	log       *logger.Logger
}

func NewJobService(deps JobServiceDeps) *JobService {
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	if deps.IDGenerator == nil {
		deps.IDGenerator = idgen.NewUUIDGenerator()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	return &JobService{
		repo:      deps.Repo,
		clock:     deps.Clock,
		ids:       deps.IDGenerator,
		publisher: deps.Publisher,
		breaker:   deps.Breaker,
		validator: NewJobValidator(),
		log:       deps.Log,
	}
}

func (s *JobService) CreateJob(ctx context.Context, input CreateJobInput, poster identity.Identity) (domain.JobView, error) {
	if poster.IsAnonymous() {
		return domain.JobView{}, commonerrors.ErrUnauthorized
	}

	input = input.normalize()
	if err := s.validator.Validate(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": poster.UserID,
			"action":  "create_job_validation_failed",
		}).Warnf("create job validation failed: %v", err)
		return domain.JobView{}, err
	}

	id, err := s.ids.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": poster.UserID,
			"action":  "create_job_id_generation_failed",
		}).Errorf("create job failed: %v", err)
		return domain.JobView{}, commonerrors.ErrInternalError.WithCause(err)
	}

	job := domain.Job{
		ID:          id,
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		Type:        domain.Type(input.Type),
		Description: input.Description,
		PostedAt:    s.clock.Now().UTC().Truncate(time.Microsecond),
		PostedBy:    poster.UserID,
	}
	if input.Salary != "" {
		salary := input.Salary
		job.Salary = &salary
	}

	if err := s.call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, job)
	}); err != nil {
		return domain.JobView{}, s.storeError(ctx, "create_job_failed", err)
	}

	metrics.JobsPosted.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"job_id":  job.ID,
		"user_id": poster.UserID,
		"action":  "job_posted",
	}).Info("job posted")

	events.Emit(ctx, s.publisher, s.log, events.TopicJobPosted, events.JobPosted{
		JobID:    job.ID,
		PostedBy: job.PostedBy,
		Title:    job.Title,
		Type:     string(job.Type),
	})

	return domain.JobView{Job: job, PosterName: poster.Name}, nil
}

// GetJobByID reports ids that are not well-formed as not found.
func (s *JobService) GetJobByID(ctx context.Context, id string) (domain.JobView, error) {
	if !idgen.IsValid(id) {
		return domain.JobView{}, commonerrors.ErrJobNotFound
	}

	var view domain.JobView
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		view, err = s.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.JobView{}, s.storeError(ctx, "get_job_failed", err)
	}

	return view, nil
}

func (s *JobService) ListJobs(ctx context.Context, criteria search.Criteria, opts domain.ListOptions) ([]domain.JobView, error) {
	criteria = criteria.Normalize()
	if utf8.RuneCountInString(criteria.Query) > constants.MaxSearchQueryLength ||
		utf8.RuneCountInString(criteria.Location) > constants.MaxSearchQueryLength {
		return nil, commonerrors.ErrQueryTooLong
	}

	filtered := "false"
	if !criteria.IsEmpty() {
		filtered = "true"
	}
	metrics.JobSearches.WithLabelValues(filtered).Inc()

	return s.list(ctx, "list_jobs_failed", func(ctx context.Context) ([]domain.JobView, error) {
		return s.repo.List(ctx, criteria, opts)
	})
}

func (s *JobService) ListFeaturedJobs(ctx context.Context) ([]domain.JobView, error) {
	return s.list(ctx, "list_featured_jobs_failed", func(ctx context.Context) ([]domain.JobView, error) {
		return s.repo.List(ctx, search.Criteria{}, domain.ListOptions{Limit: constants.FeaturedJobsLimit})
	})
}

// ListJobsByPoster returns the poster's jobs, newest first, each with its
// application count.
func (s *JobService) ListJobsByPoster(ctx context.Context, posterID string) ([]domain.JobView, error) {
	return s.list(ctx, "list_jobs_by_poster_failed", func(ctx context.Context) ([]domain.JobView, error) {
		return s.repo.ListByPoster(ctx, posterID)
	})
}

func (s *JobService) list(ctx context.Context, action string, fetch func(context.Context) ([]domain.JobView, error)) ([]domain.JobView, error) {
	var views []domain.JobView
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		views, err = fetch(ctx)
		return err
	})
	if err != nil {
		return nil, s.storeError(ctx, action, err)
	}
	if views == nil {
		views = []domain.JobView{}
	}
	return views, nil
}

func (s *JobService) call(ctx context.Context, fn func(context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Call(ctx, fn)
}

func (s *JobService) storeError(ctx context.Context, action string, err error) error {
	mapped := commonerrors.AsStoreError(err)
	if errors.Is(mapped, commonerrors.ErrStoreUnavailable) {
		s.log.WithFields(ctx, logger.Fields{
			"action": action,
		}).Errorf("job store call failed: %v", err)
	}
	return mapped
}
