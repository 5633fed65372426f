package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlibekovAA/jobboard/internal/application/domain"
	"github.com/AlibekovAA/jobboard/internal/common/clock"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/identity"
	jobdomain "github.com/AlibekovAA/jobboard/internal/job/domain"
	"github.com/AlibekovAA/jobboard/internal/testutil/memstore"
	userdomain "github.com/AlibekovAA/jobboard/internal/user/domain"
)

const jobID = "11111111-1111-4111-8111-111111111111"

var (
	applicantB = identity.Identity{UserID: "user-b", Name: "Bob"}
	baseNow    = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
)

type counterIDs struct{ n atomic.Int64 }

func (g *counterIDs) NewID() (string, error) {
	return fmt.Sprintf("22222222-2222-4222-8222-%012d", g.n.Add(1)), nil
}

type storeJobs struct {
	store *memstore.Store
}

func (l storeJobs) GetJobByID(ctx context.Context, id string) (jobdomain.JobView, error) {
	return l.store.Jobs().FindByID(ctx, id)
}

type mockJobLookup struct {
	getJobByIDFunc func(ctx context.Context, id string) (jobdomain.JobView, error)
}

func (m *mockJobLookup) GetJobByID(ctx context.Context, id string) (jobdomain.JobView, error) {
	return m.getJobByIDFunc(ctx, id)
}

type mockRepo struct {
	existsFunc      func(ctx context.Context, jobID, userID string) (bool, error)
	createFunc      func(ctx context.Context, app domain.Application) (bool, error)
	listForUserFunc func(ctx context.Context, userID string) ([]domain.ApplicationView, error)
}

func (m *mockRepo) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	return m.existsFunc(ctx, jobID, userID)
}

func (m *mockRepo) Create(ctx context.Context, app domain.Application) (bool, error) {
	return m.createFunc(ctx, app)
}

func (m *mockRepo) ListForUser(ctx context.Context, userID string) ([]domain.ApplicationView, error) {
	return m.listForUserFunc(ctx, userID)
}

func seedStore(t *testing.T) *memstore.Store {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()
	for _, u := range []userdomain.User{{ID: "user-a", Name: "Alice"}, {ID: "user-b", Name: "Bob"}} {
		if _, err := store.Users().Upsert(ctx, u); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
	err := store.Jobs().Create(ctx, jobdomain.Job{
		ID:          jobID,
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Type:        jobdomain.TypeFullTime,
		Description: "Go",
		PostedAt:    baseNow,
		PostedBy:    "user-a",
	})
	if err != nil {
		t.Fatalf("failed to seed job: %v", err)
	}
	return store
}

func newService(store *memstore.Store) *ApplicationService {
	return NewApplicationService(ApplicationServiceDeps{
		Repo:        store.Applications(),
		Jobs:        storeJobs{store: store},
		Clock:       clock.NewMockClock(baseNow.Add(time.Hour)),
		IDGenerator: &counterIDs{},
		Log:         logger.NewDiscard(),
	})
}

func TestApplicationService_Apply_Success(t *testing.T) {
	svc := newService(seedStore(t))

	view, err := svc.Apply(context.Background(), jobID, applicantB)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view.Status != domain.StatusPending {
		t.Errorf("expected PENDING, got %s", view.Status)
	}
	if view.JobID != jobID || view.UserID != "user-b" {
		t.Errorf("unexpected application %+v", view.Application)
	}
	if view.Job.Title != "Backend Engineer" || view.PosterName != "Alice" {
		t.Errorf("expected job and poster to be joined, got %+v / %s", view.Job, view.PosterName)
	}
	if !view.AppliedAt.Equal(baseNow.Add(time.Hour)) {
		t.Errorf("unexpected applied at %v", view.AppliedAt)
	}
}

func TestApplicationService_Apply_Twice(t *testing.T) {
	svc := newService(seedStore(t))

	if _, err := svc.Apply(context.Background(), jobID, applicantB); err != nil {
		t.Fatalf("expected first apply to succeed, got %v", err)
	}
	_, err := svc.Apply(context.Background(), jobID, applicantB)
	if !errors.Is(err, commonerrors.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApplicationService_Apply_Concurrent(t *testing.T) {
	store := seedStore(t)
	svc := newService(store)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
		start     = make(chan struct{})
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Apply(context.Background(), jobID, applicantB)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, commonerrors.ErrAlreadyApplied):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if successes.Load() != 1 || conflicts.Load() != attempts-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", attempts-1, successes.Load(), conflicts.Load())
	}

	apps, err := svc.ListApplicationsForUser(context.Background(), "user-b")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(apps) != 1 {
		t.Errorf("expected exactly one stored application, got %d", len(apps))
	}
}

func TestApplicationService_Apply_ConstraintWinsOverStalePrecheck(t *testing.T) {
	repo := &mockRepo{
		existsFunc: func(context.Context, string, string) (bool, error) { return false, nil },
		createFunc: func(context.Context, domain.Application) (bool, error) { return false, nil },
	}
	svc := NewApplicationService(ApplicationServiceDeps{
		Repo: repo,
		Jobs: &mockJobLookup{getJobByIDFunc: func(_ context.Context, id string) (jobdomain.JobView, error) {
			return jobdomain.JobView{Job: jobdomain.Job{ID: id}}, nil
		}},
		Log: logger.NewDiscard(),
	})

	_, err := svc.Apply(context.Background(), jobID, applicantB)
	if !errors.Is(err, commonerrors.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApplicationService_Apply_Unauthorized(t *testing.T) {
	svc := newService(seedStore(t))

	_, err := svc.Apply(context.Background(), jobID, identity.Identity{})
	if !errors.Is(err, commonerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestApplicationService_Apply_JobNotFound(t *testing.T) {
	svc := newService(seedStore(t))

	_, err := svc.Apply(context.Background(), "33333333-3333-4333-8333-333333333333", applicantB)
	if !errors.Is(err, commonerrors.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestApplicationService_Apply_InsertSurvivesClientCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var insertCtxErr error
	repo := &mockRepo{
		existsFunc: func(context.Context, string, string) (bool, error) {
			cancel()
			return false, nil
		},
		createFunc: func(ctx context.Context, _ domain.Application) (bool, error) {
			insertCtxErr = ctx.Err()
			return true, nil
		},
	}
	svc := NewApplicationService(ApplicationServiceDeps{
		Repo: repo,
		Jobs: &mockJobLookup{getJobByIDFunc: func(_ context.Context, id string) (jobdomain.JobView, error) {
			return jobdomain.JobView{Job: jobdomain.Job{ID: id}}, nil
		}},
		Log: logger.NewDiscard(),
	})

	if _, err := svc.Apply(ctx, jobID, applicantB); err != nil {
		t.Fatalf("expected apply to complete, got %v", err)
	}
	if insertCtxErr != nil {
		t.Errorf("expected insert context to ignore client cancellation, got %v", insertCtxErr)
	}
}

func TestApplicationService_Apply_StoreUnavailable(t *testing.T) {
	repo := &mockRepo{
		existsFunc: func(context.Context, string, string) (bool, error) {
			return false, errors.New("connection refused")
		},
	}
	svc := NewApplicationService(ApplicationServiceDeps{
		Repo: repo,
		Jobs: &mockJobLookup{getJobByIDFunc: func(_ context.Context, id string) (jobdomain.JobView, error) {
			return jobdomain.JobView{Job: jobdomain.Job{ID: id}}, nil
		}},
		Log: logger.NewDiscard(),
	})

	_, err := svc.Apply(context.Background(), jobID, applicantB)
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestApplicationService_ListApplicationsForUser_Empty(t *testing.T) {
	svc := newService(seedStore(t))

	apps, err := svc.ListApplicationsForUser(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if apps == nil || len(apps) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", apps)
	}
}
