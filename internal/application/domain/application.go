package domain

import (
	"fmt"
	"time"

	jobdomain "github.com/AlibekovAA/jobboard/internal/job/domain"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown application status %q", s)
	}
	return st, nil
}

var transitions = map[Status][]Status{
	StatusPending: {StatusAccepted, StatusRejected},
}

// CanTransition reports whether an application may move from one status to
// another. ACCEPTED and REJECTED are terminal.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Application struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	UserID    string    `json:"userId"`
	Status    Status    `json:"status"`
	AppliedAt time.Time `json:"appliedAt"`
}

// JobSummary is the slice of a job shown next to an application.
type JobSummary struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Company  string         `json:"company"`
	Location string         `json:"location"`
	Type     jobdomain.Type `json:"type"`
	PostedAt time.Time      `json:"postedAt"`
}

// ApplicationView is an application joined with its job and that job's
// poster name.
type ApplicationView struct {
	Application
	Job        JobSummary `json:"job"`
	PosterName string     `json:"posterName"`
}

func SummaryOf(job jobdomain.Job) JobSummary {
	return JobSummary{
		ID:       job.ID,
		Title:    job.Title,
		Company:  job.Company,
		Location: job.Location,
		Type:     job.Type,
		PostedAt: job.PostedAt,
	}
}
