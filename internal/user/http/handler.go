package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	commonhttp "github.com/AlibekovAA/jobboard/internal/common/http"
	"github.com/AlibekovAA/jobboard/internal/identity"
	"github.com/AlibekovAA/jobboard/internal/user/domain"
)

type profileService interface {
	Profile(ctx context.Context, id identity.Identity) (domain.User, error)
}

type Handler struct {
	service profileService
	errs    *commonhttp.ErrorHandler
}

func NewHandler(service profileService, errs *commonhttp.ErrorHandler) *Handler {
	return &Handler{service: service, errs: errs}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.me).Methods(http.MethodGet)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, user.Profile())
}
