package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	appdomain "github.com/AlibekovAA/jobboard/internal/application/domain"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/identity"
	jobdomain "github.com/AlibekovAA/jobboard/internal/job/domain"
)

type PostedJobsSource interface {
	ListJobsByPoster(ctx context.Context, posterID string) ([]jobdomain.JobView, error)
}

type ApplicationsSource interface {
	ListApplicationsForUser(ctx context.Context, userID string) ([]appdomain.ApplicationView, error)
}

type Dashboard struct {
	PostedJobs   []jobdomain.JobView         `json:"postedJobs"`
	Applications []appdomain.ApplicationView `json:"applications"`
}

type DashboardService struct {
	jobs         PostedJobsSource
	applications ApplicationsSource
	log          *logger.Logger
}

func NewDashboardService(jobs PostedJobsSource, applications ApplicationsSource, log *logger.Logger) *DashboardService {
	return &DashboardService{jobs: jobs, applications: applications, log: log}
}

// BuildDashboard fetches the caller's posted jobs and applications
// concurrently. A user with neither gets two empty lists.
func (s *DashboardService) BuildDashboard(ctx context.Context, caller identity.Identity) (Dashboard, error) {
	if caller.IsAnonymous() {
		return Dashboard{}, commonerrors.ErrUnauthorized
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		jobs, err := s.jobs.ListJobsByPoster(gctx, caller.UserID)
		if err != nil {
			return err
		}
		d.PostedJobs = jobs
		return nil
	})

	g.Go(func() error {
		apps, err := s.applications.ListApplicationsForUser(gctx, caller.UserID)
		if err != nil {
			return err
		}
		d.Applications = apps
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": caller.UserID,
			"action":  "build_dashboard_failed",
		}).Warnf("build dashboard failed: %v", err)
		return Dashboard{}, err
	}

	if d.PostedJobs == nil {
		d.PostedJobs = []jobdomain.JobView{}
	}
	if d.Applications == nil {
		d.Applications = []appdomain.ApplicationView{}
	}

	return d, nil
}
