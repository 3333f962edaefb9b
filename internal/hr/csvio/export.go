// Package csvio reads and writes the CSV documents exchanged with
// spreadsheet applications: the global movement-history export and the
// employee bulk-load. Exports are UTF-8 with a byte-order mark so
// Excel opens accented French headers correctly.
package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rh-insights/rh-insights-backend/internal/hr/ledger"
)

const bom = "\ufeff"

// Column order of the movement-history export.
var historyHeader = []string{
	"DATE",
	"MATRICULE",
	"NOMS",
	"TYPE DE MOUVEMENT",
	"ANCIENNE VALEUR",
	"NOUVELLE VALEUR",
	"MOTIF",
	"PRIME D'ÉLOIGNEMENT",
	"POURCENTAGE PRIME (%)",
	"DURÉE AFFECTATION (MOIS)",
}

// WriteGlobalHistory writes the merged movement history.
func WriteGlobalHistory(w io.Writer, entries []ledger.GlobalEntry) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			e.Date,
			e.Matricule,
			e.Noms,
			e.Type,
			formatValue(e.AncienneValeur),
			formatValue(e.NouvelleValeur),
			e.Motif,
			"", "", "",
		}
		if e.Type == ledger.TypeLieuTravail {
			if e.DroitPrimeEloignement != nil && *e.DroitPrimeEloignement {
				row[7] = "Oui"
			} else {
				row[7] = "Non"
			}
			if e.PourcentagePrime != nil {
				row[8] = strconv.FormatFloat(*e.PourcentagePrime, 'f', -1, 64)
			}
			if e.DureeAffectationMois != nil {
				row[9] = strconv.Itoa(*e.DureeAffectationMois)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case nil:
		return ""
	}
	return ""
}
