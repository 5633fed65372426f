package constants

import "time"

const (
	JobTitleMaxLength       = 200
	JobCompanyMaxLength     = 200
	JobLocationMaxLength    = 200
	JobSalaryMaxLength      = 100
	JobDescriptionMaxLength = 10000

	FeaturedJobsLimit     = 6
	MaxSearchQueryLength  = 200
	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = 1 * time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 10 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8080"
	DefaultSignInURL      = "/auth/signin"
	DefaultRequestTimeout = 5 * time.Second

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 5 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	RateLimitWriteRequestsPerSecond   = 2
	RateLimitWriteBurst               = 5
	RateLimitGeneralRequestsPerSecond = 50
	RateLimitGeneralBurst             = 100
	RateLimitCleanupInterval          = 5 * time.Minute

	EventPublishTimeout = 2 * time.Second

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
