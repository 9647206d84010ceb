package validator

import "github.com/sanops/fabric-watch/pkg/zoning"

// Verdict represents the outcome of the path-count rule for one fabric.
type Verdict string

// Define the verdicts.
const (
	VerdictOK    Verdict = "OK"
	VerdictError Verdict = "Error"
)

// FinalStatus is the combined verdict across both fabrics.
type FinalStatus string

// Define the final statuses.
const (
	StatusGood    FinalStatus = "Good"
	StatusFabABad FinalStatus = "FabA-Bad"
	StatusFabBBad FinalStatus = "FabB-Bad"
	StatusBothBad FinalStatus = "Both-Bad"
)

// FabricCounts holds the login/logout tallies for one host on one fabric.
type FabricCounts struct {
	LoggedIn    int `json:"loggedIn"`
	NotLoggedIn int `json:"notLoggedIn"`
}

// WWNEntry is one distinct (WWN, fabric) observation for a host, in the
// order it was first seen.
type WWNEntry struct {
	WWN      string        `json:"wwn"`
	LoggedIn bool          `json:"loggedIn"`
	Fabric   zoning.Fabric `json:"fabric"`
}

// Result is the verdict record for a single host. Immutable once produced.
type Result struct {
	Host     string       `json:"host"`
	WWNs     []WWNEntry   `json:"wwns"`
	FabricA  FabricCounts `json:"fabricA"`
	FabricB  FabricCounts `json:"fabricB"`
	VerdictA Verdict      `json:"validationA"`
	VerdictB Verdict      `json:"validationB"`
	Final    FinalStatus  `json:"finalValidation"`
}

// Summary aggregates one validation run.
type Summary struct {
	TotalHosts        int `json:"totalHosts"`
	Good              int `json:"good"`
	FabABad           int `json:"fabABad"`
	FabBBad           int `json:"fabBBad"`
	BothBad           int `json:"bothBad"`
	PercentageGood    int `json:"percentageGood"`
	OriginalRows      int `json:"originalRows"`
	DuplicatesRemoved int `json:"duplicatesRemoved"`
	UniqueRows        int `json:"uniqueRows"`
}
