// Package domain holds the HR entities persisted in the application
// blob. JSON field names follow the historical store document so that
// existing db.json files load unchanged.
package domain

// Employee status values
const (
	StatusActif = "Actif"
	StatusParti = "Parti"
)

// NA is the placeholder the application uses for unknown values.
const NA = "N/A"

// Sexe values
const (
	SexeHomme = "Homme"
	SexeFemme = "Femme"
	SexeNA    = NA
)

// Open position types and statuses
const (
	PositionRemplacement = "Remplacement"
	PositionCreation     = "Création"

	PositionOuvert = "Ouvert"
	PositionPourvu = "Pourvu"
	PositionAnnule = "Annulé"
)

// Employee is a personnel record. The matricule is the primary key.
type Employee struct {
	Matricule    string  `json:"matricule"`
	Noms         string  `json:"noms"`
	Email        string  `json:"email"`
	Sexe         string  `json:"sexe"`
	Entite       string  `json:"entite"`
	Departement  string  `json:"departement"`
	Poste        string  `json:"poste"`
	LieuTravail  string  `json:"lieuTravail"`
	Salaire      float64 `json:"salaire"`
	TypeContrat  string  `json:"typeContrat"`
	DateEmbauche string  `json:"dateEmbauche"`
	PeriodeEssai int     `json:"periodeEssai"`
	Status       string  `json:"status"`
	DateDepart   string  `json:"dateDepart,omitempty"`
}

// IsActive reports whether the employee is still on payroll.
func (e *Employee) IsActive() bool {
	return e.Status == StatusActif
}

// OpenPosition is a recruitment posting.
type OpenPosition struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	OpeningDate string   `json:"openingDate"`
	FilledDate  string   `json:"filledDate,omitempty"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Cost        *float64 `json:"cost,omitempty"`
}

// SalaryChange is a salary movement ledger entry. Values are numeric.
type SalaryChange struct {
	Date           string  `json:"date"`
	Matricule      string  `json:"matricule"`
	Noms           string  `json:"noms"`
	AncienneValeur float64 `json:"ancienneValeur"`
	NouvelleValeur float64 `json:"nouvelleValeur"`
	Motif          string  `json:"motif"`
}

// Change is a string-valued movement ledger entry, shared by the
// function, contract, department and entity ledgers.
type Change struct {
	Date           string `json:"date"`
	Matricule      string `json:"matricule"`
	Noms           string `json:"noms"`
	AncienneValeur string `json:"ancienneValeur"`
	NouvelleValeur string `json:"nouvelleValeur"`
	Motif          string `json:"motif"`
}

// WorkLocationChange is a work-location movement ledger entry. The
// remoteness-bonus fields live only on the ledger entry and are never
// copied back onto the employee.
type WorkLocationChange struct {
	Date                  string   `json:"date"`
	Matricule             string   `json:"matricule"`
	Noms                  string   `json:"noms"`
	AncienneValeur        string   `json:"ancienneValeur"`
	NouvelleValeur        string   `json:"nouvelleValeur"`
	Motif                 string   `json:"motif"`
	DroitPrimeEloignement bool     `json:"droitPrimeEloignement"`
	PourcentagePrime      *float64 `json:"pourcentagePrime,omitempty"`
	DureeAffectationMois  *int     `json:"dureeAffectationMois,omitempty"`
}

// Snapshot is the full persisted state of the application: a single
// opaque blob, fetched in full on startup and rewritten in full on
// every debounced save. CurrentUser is always nil on disk.
type Snapshot struct {
	Employees           []Employee           `json:"employees"`
	OpenPositions       []OpenPosition       `json:"openPositions"`
	Users               []User               `json:"users"`
	CurrentUser         *User                `json:"currentUser"`
	SalaryHistory       []SalaryChange       `json:"salaryHistory"`
	FunctionHistory     []Change             `json:"functionHistory"`
	ContractHistory     []Change             `json:"contractHistory"`
	DepartmentHistory   []Change             `json:"departmentHistory"`
	EntityHistory       []Change             `json:"entityHistory"`
	WorkLocationHistory []WorkLocationChange `json:"workLocationHistory"`
	Departments         []string             `json:"departments"`
	Entities            []string             `json:"entities"`
	WorkLocations       []string             `json:"workLocations"`
}

// Empty returns a snapshot with every collection initialized, so the
// serialized form carries empty arrays instead of nulls.
func Empty() Snapshot {
	return Snapshot{
		Employees:           []Employee{},
		OpenPositions:       []OpenPosition{},
		Users:               []User{},
		SalaryHistory:       []SalaryChange{},
		FunctionHistory:     []Change{},
		ContractHistory:     []Change{},
		DepartmentHistory:   []Change{},
		EntityHistory:       []Change{},
		WorkLocationHistory: []WorkLocationChange{},
		Departments:         []string{},
		Entities:            []string{},
		WorkLocations:       []string{},
	}
}
