package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rh-insights/rh-insights-backend/internal/hr/service"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// MovementHandler handles movement recording, history listing and the
// CSV round-trip endpoints.
type MovementHandler struct {
	service *service.MovementService
	logger  *logger.Logger
}

func NewMovementHandler(svc *service.MovementService, log *logger.Logger) *MovementHandler {
	return &MovementHandler{service: svc, logger: log}
}

// RecordSalary records a salary movement.
func (h *MovementHandler) RecordSalary(w http.ResponseWriter, r *http.Request) {
	var req service.SalaryMovementRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	rec, err := h.service.RecordSalary(r.Context(), req)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.Created(w, rec)
}

// Record records a function, contract, department or entity movement
// depending on the {kind} path segment.
func (h *MovementHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req service.MovementRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	var rec interface{}
	var err error
	switch chi.URLParam(r, "kind") {
	case "function":
		rec, err = h.service.RecordFunction(r.Context(), req)
	case "contract":
		rec, err = h.service.RecordContract(r.Context(), req)
	case "department":
		rec, err = h.service.RecordDepartment(r.Context(), req)
	case "entity":
		rec, err = h.service.RecordEntity(r.Context(), req)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.Created(w, rec)
}

// RecordWorkLocation records a work-location movement.
func (h *MovementHandler) RecordWorkLocation(w http.ResponseWriter, r *http.Request) {
	var req service.WorkLocationMovementRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	rec, err := h.service.RecordWorkLocation(r.Context(), req)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.Created(w, rec)
}

// SalaryHistory lists the salary ledger.
func (h *MovementHandler) SalaryHistory(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.service.SalaryHistory(r.Context()))
}

// History lists one of the string-valued ledgers by {kind}.
func (h *MovementHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(r.Context(), chi.URLParam(r, "kind"))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, entries)
}

// WorkLocationHistory lists the work-location ledger.
func (h *MovementHandler) WorkLocationHistory(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.service.WorkLocationHistory(r.Context()))
}

// GlobalHistory lists all six ledgers merged, newest first.
func (h *MovementHandler) GlobalHistory(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.service.GlobalHistory(r.Context()))
}

// ExportCSV streams the merged history as CSV.
func (h *MovementHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="historique_mouvements.csv"`)
	if err := h.service.ExportCSV(r.Context(), w); err != nil {
		h.logger.Error().Err(err).Msg("history export failed")
	}
}

// ImportCSV restores the six ledgers from an exported history file.
func (h *MovementHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := csvBody(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	defer body.Close()

	result, err := h.service.ImportCSV(r.Context(), body)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}
