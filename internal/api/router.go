package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apphttp "github.com/AlibekovAA/jobboard/internal/application/http"
	appservice "github.com/AlibekovAA/jobboard/internal/application/service"
	commonhttp "github.com/AlibekovAA/jobboard/internal/common/http"
	"github.com/AlibekovAA/jobboard/internal/common/logger"
	dashboardhttp "github.com/AlibekovAA/jobboard/internal/dashboard/http"
	dashboardservice "github.com/AlibekovAA/jobboard/internal/dashboard/service"
	"github.com/AlibekovAA/jobboard/internal/identity"
	jobhttp "github.com/AlibekovAA/jobboard/internal/job/http"
	jobservice "github.com/AlibekovAA/jobboard/internal/job/service"
	userhttp "github.com/AlibekovAA/jobboard/internal/user/http"
	userservice "github.com/AlibekovAA/jobboard/internal/user/service"
)

type Deps struct {
	Log            *logger.Logger
	SignInURL      string
	RequestTimeout time.Duration
	Provider       *identity.Provider
	Users          *userservice.UserService
	Jobs           *jobservice.JobService
	Applications   *appservice.ApplicationService
	Dashboard      *dashboardservice.DashboardService
	// WriteLimiter throttles POSTs per caller; nil disables it.
	WriteLimiter *commonhttp.RateLimiter
}

// NewHandler assembles the full HTTP surface: /health and /metrics at the
// root, the job board under /api, all behind the common middleware chain.
func NewHandler(deps Deps) http.Handler {
	errs := commonhttp.NewErrorHandler(deps.Log, deps.SignInURL)

	root := mux.NewRouter()
	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeNotFound, "not found", nil, commonhttp.TraceIDFromContext(r.Context()))
	})
	root.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, commonhttp.TraceIDFromContext(r.Context()))
	})

	root.Handle("/health", commonhttp.HealthHandler(deps.Log))
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRouter := root.PathPrefix("/api").Subrouter()
	apiRouter.Use(identity.Middleware(deps.Provider, deps.Users, errs, deps.Log))
	if deps.WriteLimiter != nil {
		apiRouter.Use(deps.WriteLimiter.WriteMiddleware(identity.RateLimitKey))
	}
	apiRouter.Use(commonhttp.WithTimeout(deps.RequestTimeout))

	jobhttp.NewHandler(deps.Jobs, errs).RegisterRoutes(apiRouter)
	apphttp.NewHandler(deps.Applications, errs).RegisterRoutes(apiRouter)
	dashboardhttp.NewHandler(deps.Dashboard, errs).RegisterRoutes(apiRouter)
	userhttp.NewHandler(deps.Users, errs).RegisterRoutes(apiRouter)

	return commonhttp.BuildBaseHandler(deps.Log, root)
}
