package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
)

func TestActiveInYear_OverlapSemantics(t *testing.T) {
	employees := []domain.Employee{
		active("M001", "15/06/2023"),                    // hired before, still active
		departed("M002", "01/01/2020", "10/02/2023"),    // left during the year
		departed("M003", "01/01/2020", "31/12/2022"),    // left before the year
		active("M004", "01/01/2024"),                    // hired after the year
		departed("M005", "01/01/2020", "pas une date"),  // unparseable departure stays in
		{Matricule: "M006", Status: domain.StatusActif}, // no hire date, excluded
	}

	got := ActiveInYear(employees, 2023)
	matricules := make([]string, len(got))
	for i, e := range got {
		matricules[i] = e.Matricule
	}
	assert.Equal(t, []string{"M001", "M002", "M005"}, matricules)
}

func TestAggregateByDimension_SortedAndCounted(t *testing.T) {
	employees := []domain.Employee{
		{Entite: "Siège", Sexe: domain.SexeHomme},
		{Entite: "Siège", Sexe: domain.SexeFemme},
		{Entite: "Agence Nord", Sexe: domain.SexeFemme},
		{Entite: domain.NA, Sexe: domain.SexeHomme},
		{Entite: "", Sexe: domain.SexeHomme},
	}

	groups := AggregateByDimension(employees, DimensionEntite)
	require.Len(t, groups, 2)
	assert.Equal(t, "Agence Nord", groups[0].Name)
	assert.Equal(t, 1, groups[0].Femme)
	assert.Equal(t, "Siège", groups[1].Name)
	assert.Equal(t, 1, groups[1].Homme)
	assert.Equal(t, 1, groups[1].Femme)
}

func TestMonthlyHeadcountBySex(t *testing.T) {
	employees := []domain.Employee{
		func() domain.Employee {
			e := active("M001", "15/03/2024")
			e.Sexe = domain.SexeHomme
			return e
		}(),
		func() domain.Employee {
			e := departed("M002", "01/01/2020", "15/06/2024")
			e.Sexe = domain.SexeFemme
			return e
		}(),
	}

	series := MonthlyHeadcountBySex(employees, 2024)
	require.Len(t, series, 12)

	// January: only the woman hired in 2020.
	assert.Equal(t, 0, series[0].Homme)
	assert.Equal(t, 1, series[0].Femme)
	// March: the man hired mid-March counts at month end.
	assert.Equal(t, 1, series[2].Homme)
	// June: departure on the 15th is gone by month end.
	assert.Equal(t, 0, series[5].Femme)
	assert.Equal(t, "Juin", series[5].Name)
}

func TestAvailableYears_NewestFirstWithCurrent(t *testing.T) {
	asOf := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)
	employees := []domain.Employee{
		active("M001", "01/01/2019"),
		departed("M002", "01/01/2020", "15/03/2022"),
	}

	years := AvailableYears(employees, asOf)
	assert.Equal(t, []int{2024, 2022, 2020, 2019}, years)
}

func TestValidDimension(t *testing.T) {
	assert.True(t, ValidDimension(DimensionEntite))
	assert.True(t, ValidDimension(DimensionLieuTravail))
	assert.False(t, ValidDimension("salaire"))
}
