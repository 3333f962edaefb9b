package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/csvio"
	"github.com/rh-insights/rh-insights-backend/internal/hr/dates"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// EmployeeService manages personnel records. Edits made here update
// the record in place and deliberately do not write movement ledger
// entries; those only come from the movement endpoints.
type EmployeeService struct {
	store  *store.Store
	logger *logger.Logger
}

func NewEmployeeService(st *store.Store, log *logger.Logger) *EmployeeService {
	return &EmployeeService{
		store:  st,
		logger: log.WithComponent("employee-service"),
	}
}

// EmployeeRequest carries a full employee payload, used for both
// creation and update.
type EmployeeRequest struct {
	Matricule    string  `json:"matricule" validate:"required"`
	Noms         string  `json:"noms" validate:"required"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Sexe         string  `json:"sexe"`
	Entite       string  `json:"entite"`
	Departement  string  `json:"departement"`
	Poste        string  `json:"poste" validate:"required"`
	LieuTravail  string  `json:"lieuTravail"`
	Salaire      float64 `json:"salaire" validate:"gte=0"`
	TypeContrat  string  `json:"typeContrat"`
	DateEmbauche string  `json:"dateEmbauche" validate:"required"`
	PeriodeEssai int     `json:"periodeEssai" validate:"gte=0"`
	Status       string  `json:"status" validate:"required,oneof=Actif Parti"`
	DateDepart   string  `json:"dateDepart"`
}

func (r EmployeeRequest) toEmployee() domain.Employee {
	return domain.Employee{
		Matricule:    strings.TrimSpace(r.Matricule),
		Noms:         strings.TrimSpace(r.Noms),
		Email:        strings.TrimSpace(r.Email),
		Sexe:         domain.NormalizeSexe(r.Sexe),
		Entite:       defaultNA(r.Entite),
		Departement:  defaultNA(r.Departement),
		Poste:        strings.TrimSpace(r.Poste),
		LieuTravail:  defaultNA(r.LieuTravail),
		Salaire:      r.Salaire,
		TypeContrat:  defaultNA(r.TypeContrat),
		DateEmbauche: strings.TrimSpace(r.DateEmbauche),
		PeriodeEssai: r.PeriodeEssai,
		Status:       r.Status,
		DateDepart:   strings.TrimSpace(r.DateDepart),
	}
}

func defaultNA(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.NA
	}
	return s
}

// List returns all employees, most recently added last.
func (s *EmployeeService) List(ctx context.Context) []domain.Employee {
	var out []domain.Employee
	s.store.View(func(snap *domain.Snapshot) {
		out = append(out, snap.Employees...)
	})
	if out == nil {
		out = []domain.Employee{}
	}
	return out
}

// Get returns a single employee by matricule.
func (s *EmployeeService) Get(ctx context.Context, matricule string) (*domain.Employee, error) {
	var found *domain.Employee
	s.store.View(func(snap *domain.Snapshot) {
		for i := range snap.Employees {
			if snap.Employees[i].Matricule == matricule {
				emp := snap.Employees[i]
				found = &emp
				return
			}
		}
	})
	if found == nil {
		return nil, errors.NotFound("employee")
	}
	return found, nil
}

// Create adds a new employee. The matricule must be unique.
func (s *EmployeeService) Create(ctx context.Context, req EmployeeRequest) (*domain.Employee, error) {
	emp := req.toEmployee()
	err := s.store.Update(func(snap *domain.Snapshot) error {
		for _, e := range snap.Employees {
			if e.Matricule == emp.Matricule {
				return errors.ConflictWithKey("errors.duplicate_matricule")
			}
		}
		snap.Employees = append(snap.Employees, emp)
		mergeReferenceLists(snap, []domain.Employee{emp})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("matricule", emp.Matricule).Msg("employee created")
	return &emp, nil
}

// Update replaces an existing record in place. Switching to Parti
// without a departure date defaults it to today; switching back to
// Actif clears it.
func (s *EmployeeService) Update(ctx context.Context, matricule string, req EmployeeRequest) (*domain.Employee, error) {
	emp := req.toEmployee()
	emp.Matricule = matricule
	if emp.Status == domain.StatusParti && emp.DateDepart == "" {
		emp.DateDepart = dates.Format(time.Now())
	}
	if emp.Status == domain.StatusActif {
		emp.DateDepart = ""
	}

	err := s.store.Update(func(snap *domain.Snapshot) error {
		for i := range snap.Employees {
			if snap.Employees[i].Matricule == matricule {
				snap.Employees[i] = emp
				mergeReferenceLists(snap, []domain.Employee{emp})
				return nil
			}
		}
		return errors.NotFound("employee")
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("matricule", matricule).Msg("employee updated")
	return &emp, nil
}

// Delete removes an employee record. Ledger entries referencing the
// matricule are kept, history outlives the record.
func (s *EmployeeService) Delete(ctx context.Context, matricule string) error {
	err := s.store.Update(func(snap *domain.Snapshot) error {
		for i := range snap.Employees {
			if snap.Employees[i].Matricule == matricule {
				snap.Employees = append(snap.Employees[:i], snap.Employees[i+1:]...)
				return nil
			}
		}
		return errors.NotFound("employee")
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("matricule", matricule).Msg("employee deleted")
	return nil
}

// DeleteAll wipes the personnel table and every movement ledger with
// it. Reference lists and postings are untouched.
func (s *EmployeeService) DeleteAll(ctx context.Context) error {
	err := s.store.Update(func(snap *domain.Snapshot) error {
		snap.Employees = []domain.Employee{}
		snap.SalaryHistory = []domain.SalaryChange{}
		snap.FunctionHistory = []domain.Change{}
		snap.ContractHistory = []domain.Change{}
		snap.DepartmentHistory = []domain.Change{}
		snap.EntityHistory = []domain.Change{}
		snap.WorkLocationHistory = []domain.WorkLocationChange{}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Warn().Msg("all employees and movement history deleted")
	return nil
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSV merges employees parsed from a CSV file into the store.
// Rows whose matricule already exists are skipped. Reference lists are
// extended with any new department, entity or work location seen.
func (s *EmployeeService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parsed := csvio.ReadEmployees(r, time.Now())
	if len(parsed) == 0 {
		return nil, errors.NewWithKey("BAD_REQUEST", "errors.nothing_imported", 400)
	}

	result := &ImportResult{}
	err := s.store.Update(func(snap *domain.Snapshot) error {
		existing := make(map[string]bool, len(snap.Employees))
		for _, e := range snap.Employees {
			existing[e.Matricule] = true
		}
		var added []domain.Employee
		for _, emp := range parsed {
			if existing[emp.Matricule] {
				result.Skipped++
				continue
			}
			existing[emp.Matricule] = true
			added = append(added, emp)
		}
		if len(added) == 0 {
			return errors.NewWithKey("BAD_REQUEST", "errors.nothing_imported", 400)
		}
		snap.Employees = append(snap.Employees, added...)
		mergeReferenceLists(snap, added)
		result.Imported = len(added)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("employee import")
	return result, nil
}

// mergeReferenceLists extends the department, entity and work location
// reference lists with values seen on the given employees. Lists are
// kept sorted and free of blanks and N/A.
func mergeReferenceLists(snap *domain.Snapshot, emps []domain.Employee) {
	snap.Departments = mergeValues(snap.Departments, emps, func(e domain.Employee) string { return e.Departement })
	snap.Entities = mergeValues(snap.Entities, emps, func(e domain.Employee) string { return e.Entite })
	snap.WorkLocations = mergeValues(snap.WorkLocations, emps, func(e domain.Employee) string { return e.LieuTravail })
}

func mergeValues(list []string, emps []domain.Employee, pick func(domain.Employee) string) []string {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		seen[v] = true
	}
	changed := false
	for _, e := range emps {
		v := strings.TrimSpace(pick(e))
		if v == "" || v == domain.NA || seen[v] {
			continue
		}
		seen[v] = true
		list = append(list, v)
		changed = true
	}
	if changed {
		sort.Strings(list)
	}
	return list
}
