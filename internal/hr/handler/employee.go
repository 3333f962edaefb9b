package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rh-insights/rh-insights-backend/internal/hr/service"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// EmployeeHandler handles personnel endpoints.
type EmployeeHandler struct {
	service *service.EmployeeService
	logger  *logger.Logger
}

func NewEmployeeHandler(svc *service.EmployeeService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: svc, logger: log}
}

// List lists all employees.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.service.List(r.Context()))
}

// Get returns one employee by matricule.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	emp, err := h.service.Get(r.Context(), chi.URLParam(r, "matricule"))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, emp)
}

// Create adds a new employee.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	emp, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.Created(w, emp)
}

// Update replaces an employee record.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	emp, err := h.service.Update(r.Context(), chi.URLParam(r, "matricule"), req)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, emp)
}

// Delete removes an employee record.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "matricule")); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.NoContent(w)
}

// DeleteAll wipes personnel and movement history.
func (h *EmployeeHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.NoContent(w)
}

// ImportCSV merges employees from an uploaded CSV file. Accepts either
// a multipart "file" field or a raw CSV body.
func (h *EmployeeHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
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

// csvBody extracts the CSV payload from a request, multipart or raw.
func csvBody(r *http.Request) (io.ReadCloser, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return nil, errors.BadRequest("invalid multipart body")
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.BadRequest("missing file field")
		}
		return f, nil
	}
	return r.Body, nil
}
