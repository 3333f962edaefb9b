// Package metrics derives dashboard KPIs, alerts and report
// aggregations from the domain store and the movement ledgers. All
// computations are best effort: a record whose date cannot be parsed
// is silently excluded, never an error.
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/dates"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
)

// French month labels used by the movement and headcount series.
var monthLabels = [12]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Juin",
	"Juil", "Août", "Sep", "Oct", "Nov", "Déc",
}

// ActiveHeadcount counts employees with status Actif.
func ActiveHeadcount(employees []domain.Employee) int {
	n := 0
	for i := range employees {
		if employees[i].IsActive() {
			n++
		}
	}
	return n
}

// HiresInYear counts employees hired in the given year.
func HiresInYear(employees []domain.Employee, year int) int {
	n := 0
	for i := range employees {
		if d, ok := dates.ParseFlexible(employees[i].DateEmbauche); ok && dates.SameYear(d, year) {
			n++
		}
	}
	return n
}

// HiresInMonth counts employees hired in the given year and month.
func HiresInMonth(employees []domain.Employee, year int, month time.Month) int {
	n := 0
	for i := range employees {
		if d, ok := dates.ParseFlexible(employees[i].DateEmbauche); ok && dates.SameMonth(d, year, month) {
			n++
		}
	}
	return n
}

// DeparturesInYear counts departed employees whose departure date
// falls in the given year. A Parti employee with a missing or
// unparseable departure date is not counted.
func DeparturesInYear(employees []domain.Employee, year int) int {
	n := 0
	for i := range employees {
		if employees[i].Status != domain.StatusParti {
			continue
		}
		if d, ok := dates.ParseFlexible(employees[i].DateDepart); ok && dates.SameYear(d, year) {
			n++
		}
	}
	return n
}

// DeparturesInMonth counts departures in the given year and month.
func DeparturesInMonth(employees []domain.Employee, year int, month time.Month) int {
	n := 0
	for i := range employees {
		if employees[i].Status != domain.StatusParti {
			continue
		}
		if d, ok := dates.ParseFlexible(employees[i].DateDepart); ok && dates.SameMonth(d, year, month) {
			n++
		}
	}
	return n
}

// TurnoverRate computes departures over average headcount for a
// period, as a percentage. The period-start headcount is reconstructed
// from the period-end one: start = end - hires + departures. A
// non-positive average yields 0.
func TurnoverRate(headcountEnd, hires, departures int) float64 {
	start := headcountEnd - hires + departures
	avg := float64(start+headcountEnd) / 2
	if avg <= 0 {
		return 0
	}
	return float64(departures) / avg * 100
}

// OpenPositionsCount counts positions with status Ouvert.
func OpenPositionsCount(positions []domain.OpenPosition) int {
	n := 0
	for i := range positions {
		if positions[i].Status == domain.PositionOuvert {
			n++
		}
	}
	return n
}

// DistinctActiveDepartments counts distinct non-empty, non-N/A
// department values among active employees.
func DistinctActiveDepartments(employees []domain.Employee) int {
	seen := make(map[string]struct{})
	for i := range employees {
		if !employees[i].IsActive() {
			continue
		}
		d := strings.TrimSpace(employees[i].Departement)
		if d == "" || d == domain.NA {
			continue
		}
		seen[d] = struct{}{}
	}
	return len(seen)
}

// MonthlyMovement is one bar of the entries/exits chart.
type MonthlyMovement struct {
	Name    string `json:"name"`
	Entrees int    `json:"Entrées"`
	Sorties int    `json:"Sorties"`
}

// MonthlyMovements returns hires and departures per calendar month of
// asOf's year, truncated at the current month.
func MonthlyMovements(employees []domain.Employee, asOf time.Time) []MonthlyMovement {
	year := asOf.Year()
	series := make([]MonthlyMovement, 12)
	for i := range series {
		series[i].Name = monthLabels[i]
	}

	for i := range employees {
		if d, ok := dates.ParseFlexible(employees[i].DateEmbauche); ok && dates.SameYear(d, year) {
			series[d.Month()-1].Entrees++
		}
		if employees[i].Status == domain.StatusParti {
			if d, ok := dates.ParseFlexible(employees[i].DateDepart); ok && dates.SameYear(d, year) {
				series[d.Month()-1].Sorties++
			}
		}
	}

	return series[:int(asOf.Month())]
}

// TrialAlert flags an active employee whose trial period ends within
// the next 15 days.
type TrialAlert struct {
	Employee      domain.Employee `json:"employee"`
	TrialEnd      string          `json:"trialEnd"`
	DaysRemaining int             `json:"daysRemaining"`
}

// TrialAlerts returns trial-period-ending alerts, soonest first.
func TrialAlerts(employees []domain.Employee, asOf time.Time) []TrialAlert {
	alerts := []TrialAlert{}
	for i := range employees {
		e := employees[i]
		if !e.IsActive() || e.PeriodeEssai <= 0 {
			continue
		}
		hired, ok := dates.ParseFlexible(e.DateEmbauche)
		if !ok {
			continue
		}
		end := dates.AddMonths(hired, e.PeriodeEssai)
		remaining := dates.DaysBetween(asOf, end)
		if remaining >= 0 && remaining <= 15 {
			alerts = append(alerts, TrialAlert{
				Employee:      e,
				TrialEnd:      dates.Format(end),
				DaysRemaining: remaining,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DaysRemaining < alerts[j].DaysRemaining
	})
	return alerts
}

// AssignmentAlert flags an active employee who has been on the same
// work location for at least 48 months since their last recorded
// work-location movement.
type AssignmentAlert struct {
	Employee       domain.Employee `json:"employee"`
	Location       string          `json:"location"`
	DurationMonths int             `json:"duration"`
}

// LongAssignmentAlerts builds alerts from the work-location ledger.
// Employees with no location-change history are excluded entirely:
// without a movement there is no assignment start to measure from.
func LongAssignmentAlerts(employees []domain.Employee, history []domain.WorkLocationChange, asOf time.Time) []AssignmentAlert {
	lastChange := make(map[string]time.Time)
	for i := range history {
		d, ok := dates.ParseFlexible(history[i].Date)
		if !ok {
			continue
		}
		if prev, seen := lastChange[history[i].Matricule]; !seen || d.After(prev) {
			lastChange[history[i].Matricule] = d
		}
	}

	alerts := []AssignmentAlert{}
	for i := range employees {
		e := employees[i]
		if !e.IsActive() {
			continue
		}
		start, ok := lastChange[e.Matricule]
		if !ok {
			continue
		}
		months := dates.WholeMonthsBetween(start, asOf)
		if months >= 48 {
			alerts = append(alerts, AssignmentAlert{
				Employee:       e,
				Location:       e.LieuTravail,
				DurationMonths: months,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DurationMonths > alerts[j].DurationMonths
	})
	return alerts
}

// Dashboard aggregates every KPI shown on the main dashboard.
type Dashboard struct {
	TotalActive        int               `json:"totalActive"`
	NewHiresThisYear   int               `json:"newHiresThisYear"`
	DeparturesThisYear int               `json:"departuresThisYear"`
	OpenPositions      int               `json:"openPositions"`
	Departments        int               `json:"departments"`
	TurnoverYearly     float64           `json:"turnoverYearly"`
	TurnoverMonthly    float64           `json:"turnoverMonthly"`
	MonthlyMovements   []MonthlyMovement `json:"monthlyMovements"`
	TrialAlerts        []TrialAlert      `json:"trialAlerts"`
	AssignmentAlerts   []AssignmentAlert `json:"assignmentAlerts"`
}

// ComputeDashboard derives the dashboard from the full snapshot.
func ComputeDashboard(snap *domain.Snapshot, asOf time.Time) Dashboard {
	year := asOf.Year()
	month := asOf.Month()

	active := ActiveHeadcount(snap.Employees)
	hiresYear := HiresInYear(snap.Employees, year)
	depsYear := DeparturesInYear(snap.Employees, year)
	hiresMonth := HiresInMonth(snap.Employees, year, month)
	depsMonth := DeparturesInMonth(snap.Employees, year, month)

	return Dashboard{
		TotalActive:        active,
		NewHiresThisYear:   hiresYear,
		DeparturesThisYear: depsYear,
		OpenPositions:      OpenPositionsCount(snap.OpenPositions),
		Departments:        DistinctActiveDepartments(snap.Employees),
		TurnoverYearly:     TurnoverRate(active, hiresYear, depsYear),
		TurnoverMonthly:    TurnoverRate(active, hiresMonth, depsMonth),
		MonthlyMovements:   MonthlyMovements(snap.Employees, asOf),
		TrialAlerts:        TrialAlerts(snap.Employees, asOf),
		AssignmentAlerts:   LongAssignmentAlerts(snap.Employees, snap.WorkLocationHistory, asOf),
	}
}
