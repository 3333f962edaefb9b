package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rh-insights/rh-insights-backend/internal/hr/service"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// PositionHandler handles recruitment posting endpoints.
type PositionHandler struct {
	service *service.PositionService
	logger  *logger.Logger
}

func NewPositionHandler(svc *service.PositionService, log *logger.Logger) *PositionHandler {
	return &PositionHandler{service: svc, logger: log}
}

// List lists all postings.
func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.service.List(r.Context()))
}

// Create opens a posting.
func (h *PositionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.PositionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	pos, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.Created(w, pos)
}

// Update edits a posting.
func (h *PositionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.PositionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	pos, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, pos)
}

// Delete removes a posting.
func (h *PositionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.NoContent(w)
}

// DeleteAll removes every posting.
func (h *PositionHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.NoContent(w)
}
