// Package interfaces defines the core abstractions of the dispensing label
// service so the data container, loader, scheduler and handlers can be
// exercised and tested independently.
package interfaces

import (
	"net/http"
	"time"

	"github.com/nicholasnlawson/dispensingpwa/formulation"
	"github.com/nicholasnlawson/dispensingpwa/refdata"
	"github.com/nicholasnlawson/dispensingpwa/shorthand"
	"github.com/nicholasnlawson/dispensingpwa/warnings"
)

// DataQualityReport summarizes problems found in the reference tables
type DataQualityReport struct {
	MedicationsWithoutAliases int
	CollidingAliases          []string
	EntriesWithoutForms       int
	MissingCatalogLabels      []int
	DuplicateLabelNumbers     []int
}

// DataStore is the contract for the frozen, atomically swappable datasets
// the handlers read from. Implementations must be safe for concurrent
// readers while an update builds replacement data off to the side.
type DataStore interface {
	GetResolver() *warnings.Resolver
	GetExpander() *shorthand.Expander
	GetClassifier() *formulation.Classifier
	GetIndex() *warnings.Index
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	GetQualityReport() *DataQualityReport

	UpdateData(resolver *warnings.Resolver, expander *shorthand.Expander, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// Loader is the contract for fetching and parsing the reference tables
type Loader interface {
	// Refresh downloads updated reference files if a source is configured
	Refresh() error

	// Load parses the local reference files into tables
	Load() (*refdata.Tables, error)
}

// HealthChecker reports service health derived from the loaded datasets
type HealthChecker interface {
	// HealthCheck returns the status, response payload and HTTP code for
	// the health endpoint
	HealthCheck() (status string, data map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload time
	CalculateNextUpdate() time.Time
}

// Scheduler manages periodic reference-data reloads and health monitoring
type Scheduler interface {
	Start() error
	Stop()
}

// DataValidator is the contract for reference-data and input validation
type DataValidator interface {
	// ValidateInput screens user-supplied query strings
	ValidateInput(input string) error

	// ValidateLabelNumber parses and bounds-checks a label number
	ValidateLabelNumber(input string) (int, error)

	// ReportDataQuality surveys the loaded tables for inconsistencies
	ReportDataQuality(tables *refdata.Tables) *DataQualityReport
}

// HTTPHandler is the contract for the API endpoints
type HTTPHandler interface {
	ResolveLabels(w http.ResponseWriter, r *http.Request)
	ServeCatalog(w http.ResponseWriter, r *http.Request)
	FindLabel(w http.ResponseWriter, r *http.Request)
	ExpandShorthand(w http.ResponseWriter, r *http.Request)
	ClassifyFormulation(w http.ResponseWriter, r *http.Request)
	ServeMedications(w http.ResponseWriter, r *http.Request)
	FindMedication(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}
