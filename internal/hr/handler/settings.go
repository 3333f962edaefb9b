package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rh-insights/rh-insights-backend/internal/hr/service"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// SettingsHandler handles the reference list endpoints.
type SettingsHandler struct {
	service *service.SettingsService
	logger  *logger.Logger
}

func NewSettingsHandler(svc *service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{service: svc, logger: log}
}

// Lists returns the three reference lists.
func (h *SettingsHandler) Lists(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.service.Lists(r.Context()))
}

// Add inserts a value into the {list} reference list.
func (h *SettingsHandler) Add(w http.ResponseWriter, r *http.Request) {
	kind, ok := service.ListKind(chi.URLParam(r, "list"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	var req service.ValueRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	list, err := h.service.Add(r.Context(), kind, req.Value)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}

// Remove deletes a value from the {list} reference list.
func (h *SettingsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	kind, ok := service.ListKind(chi.URLParam(r, "list"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	list, err := h.service.Remove(r.Context(), kind, chi.URLParam(r, "value"))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, list)
}
