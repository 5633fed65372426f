package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	appservice "github.com/AlibekovAA/jobboard/internal/application/service"
	apprepo "github.com/AlibekovAA/jobboard/internal/application/repository"
	"github.com/AlibekovAA/jobboard/internal/common/clock"
	"github.com/AlibekovAA/jobboard/internal/common/config"
	"github.com/AlibekovAA/jobboard/internal/common/constants"
	"github.com/AlibekovAA/jobboard/internal/common/db"
	"github.com/AlibekovAA/jobboard/internal/common/idgen"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	"github.com/AlibekovAA/jobboard/internal/common/resilience"
	dashboardservice "github.com/AlibekovAA/jobboard/internal/dashboard/service"
	"github.com/AlibekovAA/jobboard/internal/events"
	"github.com/AlibekovAA/jobboard/internal/identity"
	jobrepo "github.com/AlibekovAA/jobboard/internal/job/repository"
	jobservice "github.com/AlibekovAA/jobboard/internal/job/service"
	userrepo "github.com/AlibekovAA/jobboard/internal/user/repository"
	userservice "github.com/AlibekovAA/jobboard/internal/user/service"
)

const serviceName = "jobboard"

type App struct {
	Log                *logger.Logger
	Config             config.Config
	Pool               *pgxpool.Pool
	Redis              *redis.Client
	Provider           *identity.Provider
	UserService        *userservice.UserService
	JobService         *jobservice.JobService
	ApplicationService *appservice.ApplicationService
	DashboardService   *dashboardservice.DashboardService

	stopPoolMetrics context.CancelFunc
}

// NewApp loads configuration, connects to the store and wires every service.
// Redis is optional: without REDIS_URL, or when it cannot be reached, events
// are dropped and the service runs on Postgres alone.
func NewApp(ctx context.Context) (*App, error) {
	log, err := logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	metricsCtx, stopPoolMetrics := context.WithCancel(context.Background())
	db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)

	var (
		rdb       *redis.Client
		publisher events.Publisher = events.NopPublisher{}
	)
	if cfg.RedisURL != "" {
		rdb, err = events.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warnf("redis unavailable, domain events disabled: %v", err)
			rdb = nil
		} else {
			publisher = events.NewRedisPublisher(rdb)
			log.Info("redis connected, domain events enabled")
		}
	}

	realClock := clock.NewRealClock()
	ids := idgen.NewUUIDGenerator()
	breaker := func(name string) *resilience.CircuitBreaker {
		return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  cfg.CircuitBreakerThreshold,
			Timeout:    cfg.CircuitBreakerTimeout,
			ResetAfter: cfg.CircuitBreakerReset,
			Name:       name,
			Logger:     log,
		})
	}

	users := userservice.NewUserService(userservice.UserServiceDeps{
		Repo:    userrepo.NewPgRepository(pool),
		Clock:   realClock,
		Breaker: breaker("users"),
		Log:     log,
	})
	jobs := jobservice.NewJobService(jobservice.JobServiceDeps{
		Repo:        jobrepo.NewPgRepository(pool),
		Clock:       realClock,
		IDGenerator: ids,
		Publisher:   publisher,
		Breaker:     breaker("jobs"),
		Log:         log,
	})
	applications := appservice.NewApplicationService(appservice.ApplicationServiceDeps{
		Repo:        apprepo.NewPgRepository(pool),
		Jobs:        jobs,
		Clock:       realClock,
		IDGenerator: ids,
		Publisher:   publisher,
		Breaker:     breaker("applications"),
		Log:         log,
	})

	return &App{
		Log:                log,
		Config:             cfg,
		Pool:               pool,
		Redis:              rdb,
		Provider:           identity.NewProvider(cfg.JWTSecret),
		UserService:        users,
		JobService:         jobs,
		ApplicationService: applications,
		DashboardService:   dashboardservice.NewDashboardService(jobs, applications, log),
		stopPoolMetrics:    stopPoolMetrics,
	}, nil
}

// Close releases the store connections. It is safe to call once shutdown has
// drained in-flight requests.
func (a *App) Close(context.Context) error {
	a.stopPoolMetrics()
	var err error
	if a.Redis != nil {
		err = a.Redis.Close()
	}
	a.Pool.Close()
	return err
}
