package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/AlibekovAA/jobboard/internal/common/clock"
	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/common/resilience"
	"github.com/AlibekovAA/jobboard/internal/identity"
	"github.com/AlibekovAA/jobboard/internal/job/domain"
	"github.com/AlibekovAA/jobboard/internal/search"
	"github.com/AlibekovAA/jobboard/internal/testutil/memstore"
	userdomain "github.com/AlibekovAA/jobboard/internal/user/domain"
)

type sequentialIDs struct{ n int }

func (g *sequentialIDs) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.n), nil
}

type mockPublisher struct {
	topics []string
}

func (m *mockPublisher) Publish(_ context.Context, topic string, _ any) error {
	m.topics = append(m.topics, topic)
	return nil
}

var (
	posterA = identity.Identity{UserID: "user-a", Name: "Alice"}
	baseNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc   *JobService
	store *memstore.Store
	clock *clock.MockClock
	pub   *mockPublisher
}

func setupJobService(t *testing.T) fixture {
	t.Helper()
	store := memstore.New()
	if _, err := store.Users().Upsert(context.Background(), userdomain.User{ID: "user-a", Name: "Alice", UpdatedAt: baseNow}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	mockClock := clock.NewMockClock(baseNow)
	pub := &mockPublisher{}
	svc := NewJobService(JobServiceDeps{
		Repo:        store.Jobs(),
		Clock:       mockClock,
		IDGenerator: &sequentialIDs{},
		Publisher:   pub,
		Log:         logger.NewDiscard(),
	})
	return fixture{svc: svc, store: store, clock: mockClock, pub: pub}
}

func (f fixture) post(t *testing.T, title, company, location, typ string) domain.JobView {
	t.Helper()
	f.clock.Advance(time.Minute)
	view, err := f.svc.CreateJob(context.Background(), CreateJobInput{
		Title:       title,
		Company:     company,
		Location:    location,
		Type:        typ,
		Description: title + " at " + company,
	}, posterA)
	if err != nil {
		t.Fatalf("failed to post job %q: %v", title, err)
	}
	return view
}

func TestJobService_CreateThenGet(t *testing.T) {
	f := setupJobService(t)

	created, err := f.svc.CreateJob(context.Background(), CreateJobInput{
		Title:       "  Backend Engineer ",
		Company:     "Acme",
		Location:    "Remote",
		Type:        "full-time",
		Description: "Go services",
		Salary:      "100k",
	}, posterA)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := f.svc.GetJobByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got.Title != "Backend Engineer" || got.Company != "Acme" || got.Location != "Remote" || got.Type != domain.TypeFullTime {
		t.Errorf("unexpected job %+v", got.Job)
	}
	if got.Salary == nil || *got.Salary != "100k" {
		t.Errorf("expected salary 100k, got %v", got.Salary)
	}
	if got.PostedBy != "user-a" || got.PosterName != "Alice" {
		t.Errorf("expected poster Alice, got %s/%s", got.PostedBy, got.PosterName)
	}
	if !got.PostedAt.Equal(baseNow) {
		t.Errorf("expected posted at %v, got %v", baseNow, got.PostedAt)
	}
	if len(f.pub.topics) != 1 || f.pub.topics[0] != "job.posted" {
		t.Errorf("expected job.posted event, got %v", f.pub.topics)
	}
}

func TestJobService_CreateJob_EmptySalaryIsNull(t *testing.T) {
	f := setupJobService(t)
	view := f.post(t, "Intern", "Acme", "Berlin", "internship")
	if view.Salary != nil {
		t.Errorf("expected nil salary, got %q", *view.Salary)
	}
}

func TestJobService_CreateJob_Unauthorized(t *testing.T) {
	f := setupJobService(t)

	_, err := f.svc.CreateJob(context.Background(), CreateJobInput{}, identity.Identity{})
	if !errors.Is(err, commonerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJobService_CreateJob_Validation(t *testing.T) {
	f := setupJobService(t)

	_, err := f.svc.CreateJob(context.Background(), CreateJobInput{
		Title:       "   ",
		Company:     "Acme",
		Location:    "Remote",
		Type:        "gig",
		Description: "x",
	}, posterA)
	if !errors.Is(err, commonerrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	jobs, _ := f.svc.ListJobs(context.Background(), search.Criteria{}, domain.ListOptions{})
	if len(jobs) != 0 {
		t.Errorf("expected no job to be stored, got %d", len(jobs))
	}
}

func TestJobService_GetJobByID_NotFound(t *testing.T) {
	f := setupJobService(t)

	for _, id := range []string{"not-a-uuid", "", "00000000-0000-4000-8000-999999999999"} {
		if _, err := f.svc.GetJobByID(context.Background(), id); !errors.Is(err, commonerrors.ErrJobNotFound) {
			t.Errorf("GetJobByID(%q): expected ErrJobNotFound, got %v", id, err)
		}
	}
}

func TestJobService_ListJobs_NewestFirst(t *testing.T) {
	f := setupJobService(t)
	first := f.post(t, "First", "Acme", "Remote", "full-time")
	second := f.post(t, "Second", "Acme", "Remote", "full-time")
	third := f.post(t, "Third", "Acme", "Remote", "full-time")

	jobs, err := f.svc.ListJobs(context.Background(), search.Criteria{}, domain.ListOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{third.ID, second.ID, first.ID}
	if len(jobs) != len(want) {
		t.Fatalf("expected %d jobs, got %d", len(want), len(jobs))
	}
	for i, id := range want {
		if jobs[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, jobs[i].ID)
		}
		if jobs[i].ApplicationCount != nil {
			t.Errorf("expected no application count unless requested")
		}
	}
}

func TestJobService_ListJobs_Filters(t *testing.T) {
	f := setupJobService(t)
	f.post(t, "Go Developer", "Acme", "Berlin", "full-time")
	f.post(t, "Go Developer", "Globex", "Remote", "contract")
	f.post(t, "Designer", "Acme", "Berlin", "contract")

	tests := []struct {
		name     string
		criteria search.Criteria
		want     int
	}{
		{"whitespace query is unfiltered", search.Criteria{Query: "   "}, 3},
		{"query", search.Criteria{Query: "go developer"}, 2},
		{"query and type", search.Criteria{Query: "go", Type: "contract"}, 1},
		{"type and location", search.Criteria{Type: "contract", Location: "berlin"}, 1},
		{"unknown type", search.Criteria{Type: "gig"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := f.svc.ListJobs(context.Background(), tt.criteria, domain.ListOptions{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(jobs) != tt.want {
				t.Errorf("expected %d jobs, got %d", tt.want, len(jobs))
			}
		})
	}
}

func TestJobService_ListJobs_QueryTooLong(t *testing.T) {
	f := setupJobService(t)

	long := make([]rune, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err := f.svc.ListJobs(context.Background(), search.Criteria{Query: string(long)}, domain.ListOptions{})
	if !errors.Is(err, commonerrors.ErrQueryTooLong) {
		t.Fatalf("expected ErrQueryTooLong, got %v", err)
	}
}

func TestJobService_ListFeaturedJobs(t *testing.T) {
	f := setupJobService(t)
	var last domain.JobView
	for i := 0; i < 8; i++ {
		last = f.post(t, fmt.Sprintf("Job %d", i), "Acme", "Remote", "part-time")
	}

	jobs, err := f.svc.ListFeaturedJobs(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(jobs) != 6 {
		t.Fatalf("expected 6 featured jobs, got %d", len(jobs))
	}
	if jobs[0].ID != last.ID {
		t.Errorf("expected newest job first")
	}
}

func TestJobService_ListJobsByPoster_Empty(t *testing.T) {
	f := setupJobService(t)

	jobs, err := f.svc.ListJobsByPoster(context.Background(), "user-z")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if jobs == nil || len(jobs) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", jobs)
	}
}

func TestJobService_StoreUnavailable(t *testing.T) {
	f := setupJobService(t)
	f.store.SetFailure(errors.New("connection refused"))

	_, err := f.svc.ListJobs(context.Background(), search.Criteria{}, domain.ListOptions{})
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	de, _ := commonerrors.AsDomainError(err)
	if de.Message() != "internal server error" {
		t.Errorf("expected generic message, got %q", de.Message())
	}
}

func TestJobService_OpenCircuitIsStoreUnavailable(t *testing.T) {
	store := memstore.New()
	store.SetFailure(errors.New("connection refused"))
	svc := NewJobService(JobServiceDeps{
		Repo: store.Jobs(),
		Breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  1,
			Timeout:    time.Second,
			ResetAfter: time.Minute,
			Logger:     logger.NewDiscard(),
		}),
		Log: logger.NewDiscard(),
	})

	_, _ = svc.ListFeaturedJobs(context.Background())
	_, err := svc.ListFeaturedJobs(context.Background())
	if !errors.Is(err, commonerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, commonerrors.ErrCircuitOpen) {
		t.Errorf("expected open circuit as cause, got %v", err)
	}
}
