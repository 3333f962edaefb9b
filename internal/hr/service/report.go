package service

import (
	"context"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/metrics"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// ReportService computes the dashboard and the yearly breakdown
// reports from the current snapshot.
type ReportService struct {
	store  *store.Store
	logger *logger.Logger
	now    func() time.Time
}

func NewReportService(st *store.Store, log *logger.Logger) *ReportService {
	return &ReportService{
		store:  st,
		logger: log.WithComponent("report-service"),
		now:    time.Now,
	}
}

// Dashboard returns the headline indicators and alert lists.
func (s *ReportService) Dashboard(ctx context.Context) metrics.Dashboard {
	var out metrics.Dashboard
	s.store.View(func(snap *domain.Snapshot) {
		out = metrics.ComputeDashboard(snap, s.now())
	})
	return out
}

// YearlyReport is the sex breakdown of a year's active employees along
// one dimension, plus the month-by-month headcount split.
type YearlyReport struct {
	Year         int                `json:"year"`
	Dimension    string             `json:"dimension"`
	Breakdown    []metrics.SexCount `json:"breakdown"`
	MonthlyBySex []metrics.SexCount `json:"monthlyBySex"`
	TotalHomme   int                `json:"totalHomme"`
	TotalFemme   int                `json:"totalFemme"`
}

// Yearly builds the report for one year and dimension.
func (s *ReportService) Yearly(ctx context.Context, year int, dim metrics.Dimension) (*YearlyReport, error) {
	if !metrics.ValidDimension(dim) {
		return nil, errors.BadRequest("unknown report dimension")
	}
	report := &YearlyReport{Year: year, Dimension: string(dim)}
	s.store.View(func(snap *domain.Snapshot) {
		active := metrics.ActiveInYear(snap.Employees, year)
		report.Breakdown = metrics.AggregateByDimension(active, dim)
		report.MonthlyBySex = metrics.MonthlyHeadcountBySex(snap.Employees, year)
		for _, row := range report.Breakdown {
			report.TotalHomme += row.Homme
			report.TotalFemme += row.Femme
		}
	})
	return report, nil
}

// Years lists the years selectable in the report screens, most recent
// first.
func (s *ReportService) Years(ctx context.Context) []int {
	var out []int
	s.store.View(func(snap *domain.Snapshot) {
		out = metrics.AvailableYears(snap.Employees, s.now())
	})
	if out == nil {
		out = []int{}
	}
	return out
}
