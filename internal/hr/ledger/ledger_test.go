package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
)

func snapshotWithEmployee() domain.Snapshot {
	snap := domain.Empty()
	snap.Employees = append(snap.Employees, domain.Employee{
		Matricule:   "M001",
		Noms:        "KOUAM Jean",
		Salaire:     500000,
		Poste:       "Comptable",
		TypeContrat: "CDI",
		Departement: "Finance",
		Entite:      "Siège",
		LieuTravail: "Douala",
		Status:      domain.StatusActif,
	})
	return snap
}

func TestApplySalary_RecordsOldValueAndUpdatesEmployee(t *testing.T) {
	snap := snapshotWithEmployee()

	rec, err := ApplySalary(&snap, "M001", 550000, "Augmentation annuelle", "01/06/2024")
	require.NoError(t, err)

	assert.Equal(t, 500000.0, rec.AncienneValeur)
	assert.Equal(t, 550000.0, rec.NouvelleValeur)
	assert.Equal(t, "KOUAM Jean", rec.Noms)
	assert.Equal(t, 550000.0, snap.Employees[0].Salaire)
	require.Len(t, snap.SalaryHistory, 1)
}

func TestApplySalary_PrependsNewestFirst(t *testing.T) {
	snap := snapshotWithEmployee()

	_, err := ApplySalary(&snap, "M001", 550000, "premier", "01/01/2024")
	require.NoError(t, err)
	_, err = ApplySalary(&snap, "M001", 600000, "second", "01/06/2024")
	require.NoError(t, err)

	require.Len(t, snap.SalaryHistory, 2)
	assert.Equal(t, "second", snap.SalaryHistory[0].Motif)
	assert.Equal(t, 550000.0, snap.SalaryHistory[0].AncienneValeur)
}

func TestApplySalary_UnknownMatricule(t *testing.T) {
	snap := snapshotWithEmployee()

	_, err := ApplySalary(&snap, "M999", 550000, "motif", "01/06/2024")
	assert.Error(t, err)
	assert.Empty(t, snap.SalaryHistory)
	assert.Equal(t, 500000.0, snap.Employees[0].Salaire)
}

func TestApplyDepartment_UpdatesField(t *testing.T) {
	snap := snapshotWithEmployee()

	rec, err := ApplyDepartment(&snap, "M001", "RH", "Mobilité interne", "01/06/2024")
	require.NoError(t, err)

	assert.Equal(t, "Finance", rec.AncienneValeur)
	assert.Equal(t, "RH", snap.Employees[0].Departement)
	require.Len(t, snap.DepartmentHistory, 1)
}

func TestApplyWorkLocation_BonusOnlyWhenEntitled(t *testing.T) {
	snap := snapshotWithEmployee()
	pct := 15.0
	months := 24

	rec, err := ApplyWorkLocation(&snap, "M001", "Garoua", "Affectation", "01/06/2024", WorkLocationParams{
		DroitPrimeEloignement: false,
		PourcentagePrime:      &pct,
		DureeAffectationMois:  &months,
	})
	require.NoError(t, err)

	assert.False(t, rec.DroitPrimeEloignement)
	assert.Nil(t, rec.PourcentagePrime, "percentage must be dropped when no entitlement")
	assert.Equal(t, "Garoua", snap.Employees[0].LieuTravail)
}

func TestApplyWorkLocation_KeepsBonusDetails(t *testing.T) {
	snap := snapshotWithEmployee()
	pct := 15.0
	months := 24

	rec, err := ApplyWorkLocation(&snap, "M001", "Maroua", "Affectation", "01/06/2024", WorkLocationParams{
		DroitPrimeEloignement: true,
		PourcentagePrime:      &pct,
		DureeAffectationMois:  &months,
	})
	require.NoError(t, err)

	assert.True(t, rec.DroitPrimeEloignement)
	require.NotNil(t, rec.PourcentagePrime)
	assert.Equal(t, 15.0, *rec.PourcentagePrime)
	require.NotNil(t, rec.DureeAffectationMois)
	assert.Equal(t, 24, *rec.DureeAffectationMois)
}

func TestGlobalHistory_MergesAndSortsNewestFirst(t *testing.T) {
	snap := snapshotWithEmployee()

	_, err := ApplySalary(&snap, "M001", 550000, "augmentation", "01/01/2023")
	require.NoError(t, err)
	_, err = ApplyFunction(&snap, "M001", "Chef Comptable", "promotion", "15/08/2024")
	require.NoError(t, err)
	_, err = ApplyContract(&snap, "M001", "CDD", "renouvellement", "01/06/2024")
	require.NoError(t, err)

	entries := GlobalHistory(&snap)
	require.Len(t, entries, 3)
	assert.Equal(t, TypeFonction, entries[0].Type)
	assert.Equal(t, TypeContrat, entries[1].Type)
	assert.Equal(t, TypeSalaire, entries[2].Type)
}
