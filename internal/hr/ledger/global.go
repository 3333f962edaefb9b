package ledger

import (
	"sort"

	"github.com/rh-insights/rh-insights-backend/internal/hr/dates"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
)

// GlobalEntry is one row of the merged movement history. Values keep
// their ledger type: float64 for salary, string for everything else.
type GlobalEntry struct {
	Type                  string      `json:"type"`
	Date                  string      `json:"date"`
	Matricule             string      `json:"matricule"`
	Noms                  string      `json:"noms"`
	AncienneValeur        interface{} `json:"ancienneValeur"`
	NouvelleValeur        interface{} `json:"nouvelleValeur"`
	Motif                 string      `json:"motif"`
	DroitPrimeEloignement *bool       `json:"droitPrimeEloignement,omitempty"`
	PourcentagePrime      *float64    `json:"pourcentagePrime,omitempty"`
	DureeAffectationMois  *int        `json:"dureeAffectationMois,omitempty"`
}

// GlobalHistory merges the six ledgers into one list sorted by date,
// newest first. Rows whose dates cannot be parsed keep their relative
// order.
func GlobalHistory(snap *domain.Snapshot) []GlobalEntry {
	entries := make([]GlobalEntry, 0,
		len(snap.SalaryHistory)+len(snap.FunctionHistory)+len(snap.ContractHistory)+
			len(snap.DepartmentHistory)+len(snap.EntityHistory)+len(snap.WorkLocationHistory))

	for _, c := range snap.SalaryHistory {
		entries = append(entries, GlobalEntry{
			Type: TypeSalaire, Date: c.Date, Matricule: c.Matricule, Noms: c.Noms,
			AncienneValeur: c.AncienneValeur, NouvelleValeur: c.NouvelleValeur, Motif: c.Motif,
		})
	}
	for _, c := range snap.FunctionHistory {
		entries = append(entries, plainEntry(TypeFonction, c))
	}
	for _, c := range snap.ContractHistory {
		entries = append(entries, plainEntry(TypeContrat, c))
	}
	for _, c := range snap.DepartmentHistory {
		entries = append(entries, plainEntry(TypeDepartement, c))
	}
	for _, c := range snap.EntityHistory {
		entries = append(entries, plainEntry(TypeEntite, c))
	}
	for _, c := range snap.WorkLocationHistory {
		droit := c.DroitPrimeEloignement
		entries = append(entries, GlobalEntry{
			Type: TypeLieuTravail, Date: c.Date, Matricule: c.Matricule, Noms: c.Noms,
			AncienneValeur: c.AncienneValeur, NouvelleValeur: c.NouvelleValeur, Motif: c.Motif,
			DroitPrimeEloignement: &droit,
			PourcentagePrime:      c.PourcentagePrime,
			DureeAffectationMois:  c.DureeAffectationMois,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, oki := dates.ParseFlexible(entries[i].Date)
		dj, okj := dates.ParseFlexible(entries[j].Date)
		if !oki || !okj {
			return false
		}
		return dj.Before(di)
	})

	return entries
}

func plainEntry(typ string, c domain.Change) GlobalEntry {
	return GlobalEntry{
		Type: typ, Date: c.Date, Matricule: c.Matricule, Noms: c.Noms,
		AncienneValeur: c.AncienneValeur, NouvelleValeur: c.NouvelleValeur, Motif: c.Motif,
	}
}
