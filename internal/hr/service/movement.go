package service

import (
	"context"
	"io"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/csvio"
	"github.com/rh-insights/rh-insights-backend/internal/hr/dates"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/ledger"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// MovementService records career movements through the ledgers and
// serves the per-category and merged histories.
type MovementService struct {
	store  *store.Store
	logger *logger.Logger
}

func NewMovementService(st *store.Store, log *logger.Logger) *MovementService {
	return &MovementService{
		store:  st,
		logger: log.WithComponent("movement-service"),
	}
}

// SalaryMovementRequest is a salary change to record.
type SalaryMovementRequest struct {
	Matricule      string  `json:"matricule" validate:"required"`
	NouvelleValeur float64 `json:"nouvelleValeur" validate:"gte=0"`
	Motif          string  `json:"motif" validate:"required"`
	Date           string  `json:"date"`
}

// MovementRequest is a string-valued change (function, contract,
// department, entity) to record.
type MovementRequest struct {
	Matricule      string `json:"matricule" validate:"required"`
	NouvelleValeur string `json:"nouvelleValeur" validate:"required"`
	Motif          string `json:"motif" validate:"required"`
	Date           string `json:"date"`
}

// WorkLocationMovementRequest is a work-location change, optionally
// carrying remoteness-bonus details.
type WorkLocationMovementRequest struct {
	Matricule             string   `json:"matricule" validate:"required"`
	NouvelleValeur        string   `json:"nouvelleValeur" validate:"required"`
	Motif                 string   `json:"motif" validate:"required"`
	Date                  string   `json:"date"`
	DroitPrimeEloignement bool     `json:"droitPrimeEloignement"`
	PourcentagePrime      *float64 `json:"pourcentagePrime"`
	DureeAffectationMois  *int     `json:"dureeAffectationMois"`
}

func movementDate(date string) string {
	if date == "" {
		return dates.Format(time.Now())
	}
	return date
}

// RecordSalary appends a salary movement.
func (s *MovementService) RecordSalary(ctx context.Context, req SalaryMovementRequest) (*domain.SalaryChange, error) {
	var rec domain.SalaryChange
	err := s.store.Update(func(snap *domain.Snapshot) error {
		var err error
		rec, err = ledger.ApplySalary(snap, req.Matricule, req.NouvelleValeur, req.Motif, movementDate(req.Date))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("matricule", req.Matricule).Str("type", ledger.TypeSalaire).Msg("movement recorded")
	return &rec, nil
}

// RecordFunction appends a function movement.
func (s *MovementService) RecordFunction(ctx context.Context, req MovementRequest) (*domain.Change, error) {
	return s.recordString(ctx, req, ledger.TypeFonction, ledger.ApplyFunction)
}

// RecordContract appends a contract movement.
func (s *MovementService) RecordContract(ctx context.Context, req MovementRequest) (*domain.Change, error) {
	return s.recordString(ctx, req, ledger.TypeContrat, ledger.ApplyContract)
}

// RecordDepartment appends a department movement.
func (s *MovementService) RecordDepartment(ctx context.Context, req MovementRequest) (*domain.Change, error) {
	return s.recordString(ctx, req, ledger.TypeDepartement, ledger.ApplyDepartment)
}

// RecordEntity appends an entity movement.
func (s *MovementService) RecordEntity(ctx context.Context, req MovementRequest) (*domain.Change, error) {
	return s.recordString(ctx, req, ledger.TypeEntite, ledger.ApplyEntity)
}

type applyFunc func(snap *domain.Snapshot, matricule, newValue, motif, date string) (domain.Change, error)

func (s *MovementService) recordString(ctx context.Context, req MovementRequest, typ string, apply applyFunc) (*domain.Change, error) {
	var rec domain.Change
	err := s.store.Update(func(snap *domain.Snapshot) error {
		var err error
		rec, err = apply(snap, req.Matricule, req.NouvelleValeur, req.Motif, movementDate(req.Date))
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("matricule", req.Matricule).Str("type", typ).Msg("movement recorded")
	return &rec, nil
}

// RecordWorkLocation appends a work-location movement.
func (s *MovementService) RecordWorkLocation(ctx context.Context, req WorkLocationMovementRequest) (*domain.WorkLocationChange, error) {
	var rec domain.WorkLocationChange
	err := s.store.Update(func(snap *domain.Snapshot) error {
		var err error
		rec, err = ledger.ApplyWorkLocation(snap, req.Matricule, req.NouvelleValeur, req.Motif, movementDate(req.Date), ledger.WorkLocationParams{
			DroitPrimeEloignement: req.DroitPrimeEloignement,
			PourcentagePrime:      req.PourcentagePrime,
			DureeAffectationMois:  req.DureeAffectationMois,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("matricule", req.Matricule).Str("type", ledger.TypeLieuTravail).Msg("movement recorded")
	return &rec, nil
}

// SalaryHistory returns the salary ledger, newest first.
func (s *MovementService) SalaryHistory(ctx context.Context) []domain.SalaryChange {
	var out []domain.SalaryChange
	s.store.View(func(snap *domain.Snapshot) {
		out = append(out, snap.SalaryHistory...)
	})
	if out == nil {
		out = []domain.SalaryChange{}
	}
	return out
}

// History returns one of the four string-valued ledgers by kind.
func (s *MovementService) History(ctx context.Context, kind string) ([]domain.Change, error) {
	var out []domain.Change
	var ok bool
	s.store.View(func(snap *domain.Snapshot) {
		ok = true
		switch kind {
		case "function":
			out = append(out, snap.FunctionHistory...)
		case "contract":
			out = append(out, snap.ContractHistory...)
		case "department":
			out = append(out, snap.DepartmentHistory...)
		case "entity":
			out = append(out, snap.EntityHistory...)
		default:
			ok = false
		}
	})
	if !ok {
		return nil, errors.NotFound("movement")
	}
	if out == nil {
		out = []domain.Change{}
	}
	return out, nil
}

// WorkLocationHistory returns the work-location ledger, newest first.
func (s *MovementService) WorkLocationHistory(ctx context.Context) []domain.WorkLocationChange {
	var out []domain.WorkLocationChange
	s.store.View(func(snap *domain.Snapshot) {
		out = append(out, snap.WorkLocationHistory...)
	})
	if out == nil {
		out = []domain.WorkLocationChange{}
	}
	return out
}

// GlobalHistory returns all six ledgers merged, newest first.
func (s *MovementService) GlobalHistory(ctx context.Context) []ledger.GlobalEntry {
	var out []ledger.GlobalEntry
	s.store.View(func(snap *domain.Snapshot) {
		out = ledger.GlobalHistory(snap)
	})
	if out == nil {
		out = []ledger.GlobalEntry{}
	}
	return out
}

// ExportCSV writes the merged history as a UTF-8 CSV with BOM.
func (s *MovementService) ExportCSV(ctx context.Context, w io.Writer) error {
	return csvio.WriteGlobalHistory(w, s.GlobalHistory(ctx))
}

// HistoryImportResult summarizes a history CSV import.
type HistoryImportResult struct {
	Imported int `json:"imported"`
}

// ImportCSV parses a previously exported global history file and
// replaces the six ledgers with its contents. Employee records are not
// touched, the import restores history only.
func (s *MovementService) ImportCSV(ctx context.Context, r io.Reader) (*HistoryImportResult, error) {
	hist := csvio.ReadGlobalHistory(r)
	total := len(hist.Salary) + len(hist.Function) + len(hist.Contract) +
		len(hist.Department) + len(hist.Entity) + len(hist.WorkLocation)
	if total == 0 {
		return nil, errors.NewWithKey("BAD_REQUEST", "errors.invalid_csv", 400)
	}

	err := s.store.Update(func(snap *domain.Snapshot) error {
		snap.SalaryHistory = hist.Salary
		snap.FunctionHistory = hist.Function
		snap.ContractHistory = hist.Contract
		snap.DepartmentHistory = hist.Department
		snap.EntityHistory = hist.Entity
		snap.WorkLocationHistory = hist.WorkLocation
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("imported", total).Msg("movement history import")
	return &HistoryImportResult{Imported: total}, nil
}
