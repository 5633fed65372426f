package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	commonhttp "github.com/AlibekovAA/jobboard/internal/common/http"
	"github.com/AlibekovAA/jobboard/internal/identity"
	"github.com/AlibekovAA/jobboard/internal/job/domain"
	jobservice "github.com/AlibekovAA/jobboard/internal/job/service"
	"github.com/AlibekovAA/jobboard/internal/search"
)

type jobService interface {
	CreateJob(ctx context.Context, input jobservice.CreateJobInput, poster identity.Identity) (domain.JobView, error)
	GetJobByID(ctx context.Context, id string) (domain.JobView, error)
	ListJobs(ctx context.Context, criteria search.Criteria, opts domain.ListOptions) ([]domain.JobView, error)
	ListFeaturedJobs(ctx context.Context) ([]domain.JobView, error)
}

type Handler struct {
	service jobService
	errs    *commonhttp.ErrorHandler
}

func NewHandler(service jobService, errs *commonhttp.ErrorHandler) *Handler {
	return &Handler{service: service, errs: errs}
}

// RegisterRoutes mounts the job endpoints on r. /jobs/featured is registered
// before /jobs/{id} so it is not taken for an id.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/jobs", h.create).Methods(http.MethodPost)
	r.HandleFunc("/jobs", h.list).Methods(http.MethodGet)
	r.HandleFunc("/jobs/featured", h.featured).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", h.get).Methods(http.MethodGet)
}

type createJobRequest struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Salary      *string `json:"salary"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	input := jobservice.CreateJobInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Type:        req.Type,
		Description: req.Description,
	}
	if req.Salary != nil {
		input.Salary = *req.Salary
	}

	view, err := h.service.CreateJob(r.Context(), input, identity.FromContext(r.Context()))
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := search.Criteria{
		Query:    q.Get("q"),
		Type:     q.Get("type"),
		Location: q.Get("location"),
	}
	withCounts, _ := strconv.ParseBool(q.Get("withCounts"))

	jobs, err := h.service.ListJobs(r.Context(), criteria, domain.ListOptions{WithApplicationCount: withCounts})
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, jobs)
}

func (h *Handler) featured(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListFeaturedJobs(r.Context())
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, jobs)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetJobByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, view)
}
