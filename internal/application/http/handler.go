package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AlibekovAA/jobboard/internal/application/domain"
	commonhttp "github.com/AlibekovAA/jobboard/internal/common/http"
	"github.com/AlibekovAA/jobboard/internal/identity"
)

type applicationService interface {
	Apply(ctx context.Context, jobID string, applicant identity.Identity) (domain.ApplicationView, error)
}

type Handler struct {
	service applicationService
	errs    *commonhttp.ErrorHandler
}

func NewHandler(service applicationService, errs *commonhttp.ErrorHandler) *Handler {
	return &Handler{service: service, errs: errs}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/jobs/{id}/apply", h.apply).Methods(http.MethodPost)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Apply(r.Context(), mux.Vars(r)["id"], identity.FromContext(r.Context()))
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, view)
}
