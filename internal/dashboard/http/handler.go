package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	commonhttp "github.com/AlibekovAA/jobboard/internal/common/http"
	dashboardservice "github.com/AlibekovAA/jobboard/internal/dashboard/service"
	"github.com/AlibekovAA/jobboard/internal/identity"
)

type dashboardBuilder interface {
	BuildDashboard(ctx context.Context, caller identity.Identity) (dashboardservice.Dashboard, error)
}

type Handler struct {
	service dashboardBuilder
	errs    *commonhttp.ErrorHandler
}

func NewHandler(service dashboardBuilder, errs *commonhttp.ErrorHandler) *Handler {
	return &Handler{service: service, errs: errs}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/dashboard", h.dashboard).Methods(http.MethodGet)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.BuildDashboard(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, d)
}
