package metrics

import (
	"sort"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/dates"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
)

// Dimension selects the grouping axis of a report.
type Dimension string

const (
	DimensionEntite      Dimension = "entite"
	DimensionDepartement Dimension = "departement"
	DimensionLieuTravail Dimension = "lieuTravail"
)

// ValidDimension reports whether d is one of the three report axes.
func ValidDimension(d Dimension) bool {
	return d == DimensionEntite || d == DimensionDepartement || d == DimensionLieuTravail
}

func dimensionValue(e *domain.Employee, dim Dimension) string {
	switch dim {
	case DimensionEntite:
		return e.Entite
	case DimensionDepartement:
		return e.Departement
	case DimensionLieuTravail:
		return e.LieuTravail
	}
	return ""
}

// ActiveInYear filters employees present at any point of the given
// year: hired on or before year end and, when departed, departed on or
// after year start. An overlap test, not strict equality. Employees
// whose hire date cannot be parsed are excluded; a Parti employee with
// an unparseable departure date stays included.
func ActiveInYear(employees []domain.Employee, year int) []domain.Employee {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local)

	out := []domain.Employee{}
	for i := range employees {
		e := employees[i]
		hired, ok := dates.ParseFlexible(e.DateEmbauche)
		if !ok || hired.After(yearEnd) {
			continue
		}
		if e.Status == domain.StatusParti {
			if left, ok := dates.ParseFlexible(e.DateDepart); ok && left.Before(yearStart) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// SexCount is one group of a headcount-by-sex report.
type SexCount struct {
	Name  string `json:"name"`
	Homme int    `json:"Homme"`
	Femme int    `json:"Femme"`
}

// AggregateByDimension groups employees by a dimension value, counting
// Homme and Femme separately. Empty and N/A values are skipped; groups
// come back sorted alphabetically by key.
func AggregateByDimension(employees []domain.Employee, dim Dimension) []SexCount {
	groups := make(map[string]*SexCount)
	for i := range employees {
		key := dimensionValue(&employees[i], dim)
		if key == "" || key == domain.NA {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &SexCount{Name: key}
			groups[key] = g
		}
		switch employees[i].Sexe {
		case domain.SexeHomme:
			g.Homme++
		case domain.SexeFemme:
			g.Femme++
		}
	}

	out := make([]SexCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MonthlyHeadcountBySex returns, for each month of the given year, the
// number of men and women employed at month end.
func MonthlyHeadcountBySex(employees []domain.Employee, year int) []SexCount {
	out := make([]SexCount, 12)
	for m := time.January; m <= time.December; m++ {
		monthEnd := dates.EndOfMonth(year, m)
		count := SexCount{Name: monthLabels[m-1]}
		for i := range employees {
			e := employees[i]
			hired, ok := dates.ParseFlexible(e.DateEmbauche)
			if !ok || hired.After(monthEnd) {
				continue
			}
			if e.Status == domain.StatusParti {
				if left, ok := dates.ParseFlexible(e.DateDepart); ok && !left.After(monthEnd) {
					continue
				}
			}
			switch e.Sexe {
			case domain.SexeHomme:
				count.Homme++
			case domain.SexeFemme:
				count.Femme++
			}
		}
		out[m-1] = count
	}
	return out
}

// AvailableYears lists every year appearing in hire or departure
// dates, plus the current one, newest first.
func AvailableYears(employees []domain.Employee, asOf time.Time) []int {
	years := map[int]struct{}{asOf.Year(): {}}
	for i := range employees {
		if d, ok := dates.ParseFlexible(employees[i].DateEmbauche); ok {
			years[d.Year()] = struct{}{}
		}
		if employees[i].DateDepart != "" {
			if d, ok := dates.ParseFlexible(employees[i].DateDepart); ok {
				years[d.Year()] = struct{}{}
			}
		}
	}

	out := make([]int, 0, len(years))
	for y := range years {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
