package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/metrics"
	"github.com/rh-insights/rh-insights-backend/internal/hr/service"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// ReportHandler serves the dashboard and the yearly reports.
type ReportHandler struct {
	service *service.ReportService
	logger  *logger.Logger
}

func NewReportHandler(svc *service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{service: svc, logger: log}
}

// Dashboard returns the headline indicators and alert lists.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.service.Dashboard(r.Context()))
}

// Yearly builds the sex breakdown report for a year and dimension.
// Defaults: current year, entite.
func (h *ReportHandler) Yearly(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1900 {
		year = time.Now().Year()
	}
	dim := metrics.Dimension(r.URL.Query().Get("dimension"))
	if dim == "" {
		dim = metrics.DimensionEntite
	}

	report, rerr := h.service.Yearly(r.Context(), year, dim)
	if rerr != nil {
		httputil.ErrorLocalized(w, r, rerr)
		return
	}
	httputil.JSON(w, http.StatusOK, report)
}

// Years lists the selectable report years.
func (h *ReportHandler) Years(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.service.Years(r.Context()))
}
