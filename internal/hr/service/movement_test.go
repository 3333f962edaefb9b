package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/ledger"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

func movementFixture(t *testing.T) *MovementService {
	t.Helper()
	st := newStore(t)
	seedEmployee(t, st, domain.Employee{
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
	return NewMovementService(st, logger.Nop())
}

func TestRecordSalary_UpdatesEmployeeAndLedger(t *testing.T) {
	svc := movementFixture(t)
	ctx := context.Background()

	rec, err := svc.RecordSalary(ctx, SalaryMovementRequest{
		Matricule:      "M001",
		NouvelleValeur: 550000,
		Motif:          "Augmentation",
		Date:           "01/06/2024",
	})
	require.NoError(t, err)
	assert.Equal(t, 500000.0, rec.AncienneValeur)

	history := svc.SalaryHistory(ctx)
	require.Len(t, history, 1)

	svc.store.View(func(snap *domain.Snapshot) {
		assert.Equal(t, 550000.0, snap.Employees[0].Salaire)
	})
}

func TestRecordSalary_DefaultsDateToToday(t *testing.T) {
	svc := movementFixture(t)

	rec, err := svc.RecordSalary(context.Background(), SalaryMovementRequest{
		Matricule:      "M001",
		NouvelleValeur: 550000,
		Motif:          "Augmentation",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Date)
}

func TestRecordSalary_UnknownEmployee(t *testing.T) {
	svc := movementFixture(t)

	_, err := svc.RecordSalary(context.Background(), SalaryMovementRequest{
		Matricule:      "M999",
		NouvelleValeur: 550000,
		Motif:          "x",
	})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRecordByKind_AndHistory(t *testing.T) {
	svc := movementFixture(t)
	ctx := context.Background()

	_, err := svc.RecordFunction(ctx, MovementRequest{
		Matricule: "M001", NouvelleValeur: "Chef Comptable", Motif: "Promotion", Date: "01/06/2024",
	})
	require.NoError(t, err)

	_, err = svc.RecordDepartment(ctx, MovementRequest{
		Matricule: "M001", NouvelleValeur: "RH", Motif: "Mobilité", Date: "02/06/2024",
	})
	require.NoError(t, err)

	functions, err := svc.History(ctx, "function")
	require.NoError(t, err)
	require.Len(t, functions, 1)
	assert.Equal(t, "Comptable", functions[0].AncienneValeur)

	departments, err := svc.History(ctx, "department")
	require.NoError(t, err)
	require.Len(t, departments, 1)

	_, err = svc.History(ctx, "salaire")
	assert.Error(t, err)
}

func TestGlobalHistory_MergedAcrossKinds(t *testing.T) {
	svc := movementFixture(t)
	ctx := context.Background()

	_, err := svc.RecordFunction(ctx, MovementRequest{
		Matricule: "M001", NouvelleValeur: "Chef", Motif: "x", Date: "01/01/2024",
	})
	require.NoError(t, err)
	_, err = svc.RecordSalary(ctx, SalaryMovementRequest{
		Matricule: "M001", NouvelleValeur: 550000, Motif: "x", Date: "01/03/2024",
	})
	require.NoError(t, err)

	entries := svc.GlobalHistory(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, ledger.TypeSalaire, entries[0].Type)
}

func TestMovementCSV_ExportImportRoundTrip(t *testing.T) {
	svc := movementFixture(t)
	ctx := context.Background()

	pct := 10.0
	_, err := svc.RecordWorkLocation(ctx, WorkLocationMovementRequest{
		Matricule:             "M001",
		NouvelleValeur:        "Garoua",
		Motif:                 "Affectation",
		Date:                  "01/06/2024",
		DroitPrimeEloignement: true,
		PourcentagePrime:      &pct,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))

	// Import into a fresh service.
	other := movementFixture(t)
	result, err := other.ImportCSV(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	history := other.WorkLocationHistory(ctx)
	require.Len(t, history, 1)
	assert.True(t, history[0].DroitPrimeEloignement)
	require.NotNil(t, history[0].PourcentagePrime)
	assert.Equal(t, 10.0, *history[0].PourcentagePrime)
}

func TestMovementImportCSV_EmptyFileRejected(t *testing.T) {
	svc := movementFixture(t)
	_, err := svc.ImportCSV(context.Background(), bytes.NewReader(nil))
	assert.Error(t, err)
}
