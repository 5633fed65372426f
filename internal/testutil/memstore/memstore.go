// Package memstore is an in-memory stand-in for the Postgres repositories.
// It keeps the same contracts as the schema: foreign keys, one application
// per (job, user) and newest-first ordering.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	appdomain "github.com/AlibekovAA/jobboard/internal/application/domain"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	jobdomain "github.com/AlibekovAA/jobboard/internal/job/domain"
	"github.com/AlibekovAA/jobboard/internal/search"
	userdomain "github.com/AlibekovAA/jobboard/internal/user/domain"
)

type jobUser struct {
	jobID  string
	userID string
}

type Store struct {
	mu      sync.RWMutex
	users   map[string]userdomain.User
	jobs    map[string]jobdomain.Job
	apps    map[string]appdomain.Application
	applied map[jobUser]struct{}
	failure error
}

func New() *Store {
	return &Store{
		users:   make(map[string]userdomain.User),
		jobs:    make(map[string]jobdomain.Job),
		apps:    make(map[string]appdomain.Application),
		applied: make(map[jobUser]struct{}),
	}
}

// SetFailure makes every subsequent call fail with err until it is reset
// with nil.
func (s *Store) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
}

func (s *Store) Users() *UserRepository               { return &UserRepository{s: s} }
func (s *Store) Jobs() *JobRepository                 { return &JobRepository{s: s} }
func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s: s} }

func (s *Store) readLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	if s.failure != nil {
		err := s.failure
		s.mu.RUnlock()
		return err
	}
	return nil
}

func (s *Store) writeLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.failure != nil {
		err := s.failure
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) applicationCount(jobID string) int {
	n := 0
	for _, a := range s.apps {
		if a.JobID == jobID {
			n++
		}
	}
	return n
}

func (s *Store) jobView(job jobdomain.Job, withCount bool) jobdomain.JobView {
	view := jobdomain.JobView{Job: job, PosterName: s.users[job.PostedBy].Name}
	if job.Salary != nil {
		salary := *job.Salary
		view.Salary = &salary
	}
	if withCount {
		count := s.applicationCount(job.ID)
		view.ApplicationCount = &count
	}
	return view
}

func sortNewest(views []jobdomain.JobView) {
	sort.Slice(views, func(i, j int) bool {
		if !views[i].PostedAt.Equal(views[j].PostedAt) {
			return views[i].PostedAt.After(views[j].PostedAt)
		}
		return views[i].ID > views[j].ID
	})
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Upsert(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	if err := r.s.writeLock(ctx); err != nil {
		return userdomain.User{}, err
	}
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[string(user.ID)]
	if !ok {
		user.CreatedAt = user.UpdatedAt
		r.s.users[string(user.ID)] = user
		return user, nil
	}

	if existing.Name == user.Name && existing.Image == user.Image && equalEmail(existing.Email, user.Email) {
		return existing, nil
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.Image = user.Image
	existing.UpdatedAt = user.UpdatedAt
	r.s.users[string(user.ID)] = existing
	return existing, nil
}

func equalEmail(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *UserRepository) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if err := r.s.readLock(ctx); err != nil {
		return userdomain.User{}, err
	}
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[string(id)]
	if !ok {
		return userdomain.User{}, commonerrors.ErrUserNotFound
	}
	return user, nil
}

type JobRepository struct{ s *Store }

func (r *JobRepository) Create(ctx context.Context, job jobdomain.Job) error {
	if err := r.s.writeLock(ctx); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[job.PostedBy]; !ok {
		return fmt.Errorf("failed to create job: poster %s does not exist", job.PostedBy)
	}
	if _, ok := r.s.jobs[job.ID]; ok {
		return fmt.Errorf("failed to create job: duplicate id %s", job.ID)
	}
	r.s.jobs[job.ID] = job
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (jobdomain.JobView, error) {
	if err := r.s.readLock(ctx); err != nil {
		return jobdomain.JobView{}, err
	}
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs[id]
	if !ok {
		return jobdomain.JobView{}, commonerrors.ErrJobNotFound
	}
	return r.s.jobView(job, false), nil
}

func (r *JobRepository) List(ctx context.Context, criteria search.Criteria, opts jobdomain.ListOptions) ([]jobdomain.JobView, error) {
	if err := r.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer r.s.mu.RUnlock()

	views := make([]jobdomain.JobView, 0, len(r.s.jobs))
	for _, job := range r.s.jobs {
		if search.Matches(criteria, job) {
			views = append(views, r.s.jobView(job, opts.WithApplicationCount))
		}
	}
	sortNewest(views)
	if opts.Limit > 0 && len(views) > opts.Limit {
		views = views[:opts.Limit]
	}
	return views, nil
}

func (r *JobRepository) ListByPoster(ctx context.Context, posterID string) ([]jobdomain.JobView, error) {
	if err := r.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer r.s.mu.RUnlock()

	views := make([]jobdomain.JobView, 0)
	for _, job := range r.s.jobs {
		if job.PostedBy == posterID {
			views = append(views, r.s.jobView(job, true))
		}
	}
	sortNewest(views)
	return views, nil
}

type ApplicationRepository struct{ s *Store }

func (r *ApplicationRepository) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	if err := r.s.readLock(ctx); err != nil {
		return false, err
	}
	defer r.s.mu.RUnlock()

	_, ok := r.s.applied[jobUser{jobID: jobID, userID: userID}]
	return ok, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app appdomain.Application) (bool, error) {
	if err := r.s.writeLock(ctx); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[app.JobID]; !ok {
		return false, fmt.Errorf("failed to create application: job %s does not exist", app.JobID)
	}
	if _, ok := r.s.users[app.UserID]; !ok {
		return false, fmt.Errorf("failed to create application: user %s does not exist", app.UserID)
	}

	key := jobUser{jobID: app.JobID, userID: app.UserID}
	if _, ok := r.s.applied[key]; ok {
		return false, nil
	}
	r.s.applied[key] = struct{}{}
	r.s.apps[app.ID] = app
	return true, nil
}

func (r *ApplicationRepository) ListForUser(ctx context.Context, userID string) ([]appdomain.ApplicationView, error) {
	if err := r.s.readLock(ctx); err != nil {
		return nil, err
	}
	defer r.s.mu.RUnlock()

	views := make([]appdomain.ApplicationView, 0)
	for _, app := range r.s.apps {
		if app.UserID != userID {
			continue
		}
		job := r.s.jobs[app.JobID]
		views = append(views, appdomain.ApplicationView{
			Application: app,
			Job:         appdomain.SummaryOf(job),
			PosterName:  r.s.users[job.PostedBy].Name,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].AppliedAt.Equal(views[j].AppliedAt) {
			return views[i].AppliedAt.After(views[j].AppliedAt)
		}
		return views[i].ID > views[j].ID
	})
	return views, nil
}
