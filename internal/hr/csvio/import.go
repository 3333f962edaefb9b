package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/dates"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/ledger"
)

// headerRow maps column names (case preserved, BOM stripped) to their
// index in the data rows.
type headerRow map[string]int

func readHeader(record []string) headerRow {
	h := make(headerRow, len(record))
	for i, name := range record {
		name = strings.TrimPrefix(strings.TrimSpace(name), bom)
		h[name] = i
	}
	return h
}

// get returns the first non-empty value among the aliased columns.
func (h headerRow) get(record []string, aliases ...string) string {
	for _, name := range aliases {
		if idx, ok := h[name]; ok && idx < len(record) {
			if v := strings.TrimSpace(record[idx]); v != "" {
				return v
			}
		}
	}
	return ""
}

// ReadEmployees parses an employee bulk-load CSV. Rows missing any of
// Matricule, Noms or Poste are skipped, as are rows that fail to parse
// at all — a malformed row never aborts the batch. Header aliases
// follow the documented business vocabulary ("Date de Début" or
// "Date d'embauche", the three "Période d'essai" spellings).
func ReadEmployees(r io.Reader, today time.Time) []domain.Employee {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil || len(records) < 2 {
		return nil
	}
	header := readHeader(records[0])

	employees := []domain.Employee{}
	for _, rec := range records[1:] {
		matricule := header.get(rec, "Matricule")
		noms := header.get(rec, "Noms")
		poste := header.get(rec, "Poste")
		if matricule == "" || noms == "" || poste == "" {
			continue
		}

		email := header.get(rec, "Email")
		if email == "" {
			email = strings.ReplaceAll(strings.ToLower(noms), " ", ".") + "@example.com"
		}

		hireDate := header.get(rec, "Date de Début", "Date d'embauche")
		if hireDate == "" {
			hireDate = dates.Format(today)
		}

		salaire, _ := strconv.ParseFloat(header.get(rec, "Salaire de Base"), 64)

		periode, _ := strconv.Atoi(header.get(rec,
			"Période d'essai (mois)", "Période d'essai (jours)", "Période d'essai"))

		status := domain.StatusActif
		if header.get(rec, "Statut") == domain.StatusParti {
			status = domain.StatusParti
		}

		employees = append(employees, domain.Employee{
			Matricule:    matricule,
			Noms:         noms,
			Email:        email,
			Sexe:         domain.NormalizeSexe(header.get(rec, "Sexe")),
			Entite:       defaultNA(header.get(rec, "Entité")),
			Departement:  defaultNA(header.get(rec, "Département")),
			LieuTravail:  defaultNA(header.get(rec, "Lieu de travail")),
			Poste:        poste,
			Salaire:      salaire,
			TypeContrat:  defaultNA(header.get(rec, "Type de Contrat")),
			DateEmbauche: hireDate,
			PeriodeEssai: periode,
			Status:       status,
			DateDepart:   header.get(rec, "Date de départ"),
		})
	}
	return employees
}

func defaultNA(s string) string {
	if s == "" {
		return domain.NA
	}
	return s
}

// Histories is a movement-history import, one slice per ledger.
type Histories struct {
	Salary       []domain.SalaryChange
	Function     []domain.Change
	Contract     []domain.Change
	Department   []domain.Change
	Entity       []domain.Change
	WorkLocation []domain.WorkLocationChange
}

// ReadGlobalHistory parses a movement-history CSV produced by
// WriteGlobalHistory back into typed ledger entries. Rows with an
// unknown movement type or an unparseable salary are skipped silently.
func ReadGlobalHistory(r io.Reader) Histories {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var h Histories
	records, err := cr.ReadAll()
	if err != nil || len(records) < 2 {
		return h
	}
	header := readHeader(records[0])

	for _, rec := range records[1:] {
		date := header.get(rec, "DATE")
		matricule := header.get(rec, "MATRICULE")
		noms := header.get(rec, "NOMS")
		motif := header.get(rec, "MOTIF")
		ancienne := header.get(rec, "ANCIENNE VALEUR")
		nouvelle := header.get(rec, "NOUVELLE VALEUR")
		if matricule == "" {
			continue
		}

		plain := domain.Change{
			Date: date, Matricule: matricule, Noms: noms,
			AncienneValeur: ancienne, NouvelleValeur: nouvelle, Motif: motif,
		}

		switch header.get(rec, "TYPE DE MOUVEMENT") {
		case ledger.TypeSalaire:
			oldV, err1 := strconv.ParseFloat(ancienne, 64)
			newV, err2 := strconv.ParseFloat(nouvelle, 64)
			if err1 != nil || err2 != nil {
				continue
			}
			h.Salary = append(h.Salary, domain.SalaryChange{
				Date: date, Matricule: matricule, Noms: noms,
				AncienneValeur: oldV, NouvelleValeur: newV, Motif: motif,
			})
		case ledger.TypeFonction:
			h.Function = append(h.Function, plain)
		case ledger.TypeContrat:
			h.Contract = append(h.Contract, plain)
		case ledger.TypeDepartement:
			h.Department = append(h.Department, plain)
		case ledger.TypeEntite:
			h.Entity = append(h.Entity, plain)
		case ledger.TypeLieuTravail:
			wl := domain.WorkLocationChange{
				Date: date, Matricule: matricule, Noms: noms,
				AncienneValeur: ancienne, NouvelleValeur: nouvelle, Motif: motif,
				DroitPrimeEloignement: header.get(rec, "PRIME D'ÉLOIGNEMENT") == "Oui",
			}
			if v := header.get(rec, "POURCENTAGE PRIME (%)"); v != "" {
				if pct, err := strconv.ParseFloat(v, 64); err == nil {
					wl.PourcentagePrime = &pct
				}
			}
			if v := header.get(rec, "DURÉE AFFECTATION (MOIS)"); v != "" {
				if months, err := strconv.Atoi(v); err == nil {
					wl.DureeAffectationMois = &months
				}
			}
			h.WorkLocation = append(h.WorkLocation, wl)
		}
	}
	return h
}
