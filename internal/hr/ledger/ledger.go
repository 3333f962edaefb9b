// Package ledger implements the append-only change-history ledgers
// for the six tracked movement categories. Every apply captures the
// old value, prepends an immutable record (newest first) and updates
// the employee field in the same critical section — never one without
// the other. No other code path mutates these six fields; the
// personnel edit form deliberately bypasses the ledgers (corrective
// edits are not audited movements).
package ledger

import (
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
)

// Movement type labels used by the global history and its CSV export.
const (
	TypeSalaire     = "Changement de Salaire"
	TypeFonction    = "Changement de Fonction"
	TypeContrat     = "Changement de Contrat"
	TypeDepartement = "Changement de Département"
	TypeEntite      = "Changement d'Entité"
	TypeLieuTravail = "Changement de Lieu de Travail"
)

func findEmployee(snap *domain.Snapshot, matricule string) (*domain.Employee, error) {
	for i := range snap.Employees {
		if snap.Employees[i].Matricule == matricule {
			return &snap.Employees[i], nil
		}
	}
	return nil, errors.NotFound("employee")
}

// ApplySalary records a salary movement and updates the employee.
func ApplySalary(snap *domain.Snapshot, matricule string, newValue float64, motif, date string) (domain.SalaryChange, error) {
	emp, err := findEmployee(snap, matricule)
	if err != nil {
		return domain.SalaryChange{}, err
	}

	rec := domain.SalaryChange{
		Date:           date,
		Matricule:      emp.Matricule,
		Noms:           emp.Noms,
		AncienneValeur: emp.Salaire,
		NouvelleValeur: newValue,
		Motif:          motif,
	}
	snap.SalaryHistory = append([]domain.SalaryChange{rec}, snap.SalaryHistory...)
	emp.Salaire = newValue
	return rec, nil
}

// stringChange factors the four plain string-valued ledgers.
func stringChange(emp *domain.Employee, field *string, newValue, motif, date string) domain.Change {
	rec := domain.Change{
		Date:           date,
		Matricule:      emp.Matricule,
		Noms:           emp.Noms,
		AncienneValeur: *field,
		NouvelleValeur: newValue,
		Motif:          motif,
	}
	*field = newValue
	return rec
}

// ApplyFunction records a function (poste) movement.
func ApplyFunction(snap *domain.Snapshot, matricule, newValue, motif, date string) (domain.Change, error) {
	emp, err := findEmployee(snap, matricule)
	if err != nil {
		return domain.Change{}, err
	}
	rec := stringChange(emp, &emp.Poste, newValue, motif, date)
	snap.FunctionHistory = append([]domain.Change{rec}, snap.FunctionHistory...)
	return rec, nil
}

// ApplyContract records a contract-type movement.
func ApplyContract(snap *domain.Snapshot, matricule, newValue, motif, date string) (domain.Change, error) {
	emp, err := findEmployee(snap, matricule)
	if err != nil {
		return domain.Change{}, err
	}
	rec := stringChange(emp, &emp.TypeContrat, newValue, motif, date)
	snap.ContractHistory = append([]domain.Change{rec}, snap.ContractHistory...)
	return rec, nil
}

// ApplyDepartment records a department movement.
func ApplyDepartment(snap *domain.Snapshot, matricule, newValue, motif, date string) (domain.Change, error) {
	emp, err := findEmployee(snap, matricule)
	if err != nil {
		return domain.Change{}, err
	}
	rec := stringChange(emp, &emp.Departement, newValue, motif, date)
	snap.DepartmentHistory = append([]domain.Change{rec}, snap.DepartmentHistory...)
	return rec, nil
}

// ApplyEntity records an entity movement.
func ApplyEntity(snap *domain.Snapshot, matricule, newValue, motif, date string) (domain.Change, error) {
	emp, err := findEmployee(snap, matricule)
	if err != nil {
		return domain.Change{}, err
	}
	rec := stringChange(emp, &emp.Entite, newValue, motif, date)
	snap.EntityHistory = append([]domain.Change{rec}, snap.EntityHistory...)
	return rec, nil
}

// WorkLocationParams carries the remoteness-bonus details a
// work-location movement can have. They live only on the ledger entry.
type WorkLocationParams struct {
	DroitPrimeEloignement bool
	PourcentagePrime      *float64
	DureeAffectationMois  *int
}

// ApplyWorkLocation records a work-location movement.
func ApplyWorkLocation(snap *domain.Snapshot, matricule, newValue, motif, date string, params WorkLocationParams) (domain.WorkLocationChange, error) {
	emp, err := findEmployee(snap, matricule)
	if err != nil {
		return domain.WorkLocationChange{}, err
	}

	var pct *float64
	if params.DroitPrimeEloignement && params.PourcentagePrime != nil {
		v := *params.PourcentagePrime
		pct = &v
	}

	rec := domain.WorkLocationChange{
		Date:                  date,
		Matricule:             emp.Matricule,
		Noms:                  emp.Noms,
		AncienneValeur:        emp.LieuTravail,
		NouvelleValeur:        newValue,
		Motif:                 motif,
		DroitPrimeEloignement: params.DroitPrimeEloignement,
		PourcentagePrime:      pct,
		DureeAffectationMois:  params.DureeAffectationMois,
	}
	snap.WorkLocationHistory = append([]domain.WorkLocationChange{rec}, snap.WorkLocationHistory...)
	emp.LieuTravail = newValue
	return rec, nil
}
