package domain

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeFullTime   Type = "full-time"
	TypePartTime   Type = "part-time"
	TypeContract   Type = "contract"
	TypeInternship Type = "internship"
)

var Types = []Type{TypeFullTime, TypePartTime, TypeContract, TypeInternship}

func (t Type) Valid() bool {
	switch t {
	case TypeFullTime, TypePartTime, TypeContract, TypeInternship:
		return true
	}
	return false
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown job type %q", s)
	}
	return t, nil
}

type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	Salary      *string   `json:"salary"`
	PostedAt    time.Time `json:"postedAt"`
	PostedBy    string    `json:"postedBy"`
}

// JobView is a job joined with its poster's public name. ApplicationCount is
// only filled when the caller asked for it.
type JobView struct {
	Job
	PosterName       string `json:"posterName"`
	ApplicationCount *int   `json:"applicationCount,omitempty"`
}

type ListOptions struct {
	WithApplicationCount bool
	Limit                int
}
