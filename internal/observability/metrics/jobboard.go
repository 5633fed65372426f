package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_requests_total",
			Help: "Total number of jobboard HTTP requests",
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobboard_requests_in_flight",
			Help: "Number of jobboard HTTP requests currently being processed",
		},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_request_duration_seconds",
			Help:    "Duration of jobboard HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	JobsPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_posted_total",
			Help: "Total number of job postings created",
		},
	)

	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "applications_submitted_total",
			Help: "Total number of applications created",
		},
	)

	ApplicationsDuplicate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_duplicate_total",
			Help: "Total number of rejected duplicate applications by detection point",
		},
		[]string{"detected_by"},
	)

	JobSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_searches_total",
			Help: "Total number of job listings served, by whether any filter was applied",
		},
		[]string{"filtered"},
	)

	EventsPublishFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_publish_failed_total",
			Help: "Total number of domain events that could not be published",
		},
		[]string{"topic"},
	)
)
