// Package refdata loads the static reference tables the resolver and
// expander are built from: the medication table, the formulation alias
// table, the warning-entry table and the warning-label catalog.
package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicholasnlawson/dispensingpwa/formulation"
	"github.com/nicholasnlawson/dispensingpwa/logging"
	"github.com/nicholasnlawson/dispensingpwa/warnings"
)

// Reference data file names, resolved against the configured data directory
const (
	MedicationsFile  = "medications.json"
	FormulationsFile = "formulations.json"
	WarningsFile     = "warning_entries.json"
	LabelsFile       = "warning_labels.json"
)

// Tables holds the four parsed reference tables
type Tables struct {
	Medications []warnings.MedicationRecord
	Categories  []formulation.Category
	Entries     []warnings.WarningEntry
	Labels      []warnings.WarningLabel
	Shorthand   map[string]string
}

// ShorthandFile is optional; the built-in code table is used when absent
const ShorthandFile = "shorthand_codes.json"

// Loader reads reference tables from a local data directory, optionally
// refreshed from a remote base URL first
type Loader struct {
	dataDir string
	baseURL string
}

// NewLoader creates a loader rooted at dataDir. baseURL may be empty, in
// which case Refresh is a no-op and only local files are read.
func NewLoader(dataDir, baseURL string) *Loader {
	return &Loader{dataDir: dataDir, baseURL: baseURL}
}

// Load reads and parses all reference tables. Malformed rows are logged and
// skipped; a missing formulation or shorthand table falls back to the
// built-in defaults. Missing medication or warning tables are an error,
// since the resolver would be empty.
func (l *Loader) Load() (*Tables, error) {
	tables := &Tables{}

	if err := l.readJSON(MedicationsFile, &tables.Medications); err != nil {
		return nil, fmt.Errorf("failed to load medication table: %w", err)
	}

	if err := l.readJSON(WarningsFile, &tables.Entries); err != nil {
		return nil, fmt.Errorf("failed to load warning entries: %w", err)
	}

	if err := l.readJSON(LabelsFile, &tables.Labels); err != nil {
		return nil, fmt.Errorf("failed to load warning label catalog: %w", err)
	}

	if err := l.readJSON(FormulationsFile, &tables.Categories); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load formulation table: %w", err)
		}
		logging.Info("Formulation table not present, using built-in categories")
	}

	if err := l.readJSON(ShorthandFile, &tables.Shorthand); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load shorthand codes: %w", err)
		}
		logging.Info("Shorthand table not present, using built-in codes")
	}

	tables.Medications = filterMedications(tables.Medications)
	tables.Entries = filterEntries(tables.Entries)
	tables.Labels = filterLabels(tables.Labels)

	if len(tables.Medications) == 0 {
		return nil, fmt.Errorf("medication table is empty after filtering")
	}
	if len(tables.Entries) == 0 {
		return nil, fmt.Errorf("warning entry table is empty after filtering")
	}

	return tables, nil
}

// readJSON reads one reference file, transcoding from ISO-8859-1 when the
// payload is not valid UTF-8, and unmarshals it into out
func (l *Loader) readJSON(name string, out any) error {
	path := filepath.Join(l.dataDir, name)
	cleanPath := filepath.Clean(path)
	if !strings.HasPrefix(cleanPath, filepath.Clean(l.dataDir)) {
		return fmt.Errorf("invalid reference file path: %s", path)
	}

	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		return err
	}

	decoded, err := DecodeUTF8(raw)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}

	if err := json.Unmarshal(decoded, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// filterMedications drops rows without a usable name
func filterMedications(records []warnings.MedicationRecord) []warnings.MedicationRecord {
	kept := records[:0]
	for _, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			logging.Warn("Skipping medication record with empty name")
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// filterEntries drops structurally unusable warning entries. Shape problems
// beyond this are reported by the validator, not dropped here.
func filterEntries(entries []warnings.WarningEntry) []warnings.WarningEntry {
	kept := entries[:0]
	for _, e := range entries {
		if len(e.Names) == 0 {
			logging.Warn("Skipping warning entry with no names", "labels", e.LabelNumbers)
			continue
		}
		if len(e.LabelNumbers) == 0 {
			logging.Warn("Skipping warning entry with no label numbers", "names", e.Names)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// filterLabels drops catalog rows without text or a positive number
func filterLabels(labels []warnings.WarningLabel) []warnings.WarningLabel {
	kept := labels[:0]
	for _, label := range labels {
		if label.Number <= 0 || strings.TrimSpace(label.Text) == "" {
			logging.Warn("Skipping malformed warning label", "number", label.Number)
			continue
		}
		kept = append(kept, label)
	}
	return kept
}
