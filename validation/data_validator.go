// Package validation provides input screening and reference-data quality
// checks for the dispensing label service.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nicholasnlawson/dispensingpwa/interfaces"
	"github.com/nicholasnlawson/dispensingpwa/normalizer"
	"github.com/nicholasnlawson/dispensingpwa/refdata"
	"github.com/nicholasnlawson/dispensingpwa/warnings"
)

// Pre-compiled patterns for input validation, compiled once at package
// initialization
var (
	// Drug names, formulations and shorthand: alphanumeric plus the safe
	// punctuation that appears in real prescribing text
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\./\+'%&,;()àâäéèêëïîôöùûüÿç]+$`)

	// Dangerous patterns as plain substrings; strings.Contains is much
	// faster than regex for these
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "eval(", "expression(", "url(", "@import",
		"' or ", "\" or ", "union select", "drop table", "delete from",
		"insert into", "--", "/*", "*/", "exec(", "execute(",
		"`", "$(", "${",
		"../", "..\\", "%2e%2e", "file://",
	}
)

// maxInputLength bounds query strings well above any real drug name
const maxInputLength = 200

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// Compile-time check to ensure DataValidatorImpl implements DataValidator
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidatorImpl {
	return &DataValidatorImpl{}
}

// ValidateInput screens a user-supplied query string. It rejects only
// hostile or oversized input; an unmatched but well-formed query is the
// resolver's normal no-answer case, not a validation failure.
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) > maxInputLength {
		return fmt.Errorf("input too long: %d characters (max %d)", len(input), maxInputLength)
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("input contains disallowed sequence")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters")
	}

	return nil
}

// ValidateLabelNumber parses and bounds-checks a warning-label number
func (v *DataValidatorImpl) ValidateLabelNumber(input string) (int, error) {
	number, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("label number must be numeric: %w", err)
	}
	if number < 1 || number > 99 {
		return 0, fmt.Errorf("label number out of range: %d", number)
	}
	return number, nil
}

// ReportDataQuality surveys the loaded reference tables for
// inconsistencies. Problems are reported, never fixed: colliding aliases
// keep their last-writer-wins behavior, the report just makes the
// collisions visible at load time.
func (v *DataValidatorImpl) ReportDataQuality(tables *refdata.Tables) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{}
	if tables == nil {
		return report
	}

	report.CollidingAliases = findAliasCollisions(tables.Medications)

	for _, record := range tables.Medications {
		if len(record.Aliases) == 0 {
			report.MedicationsWithoutAliases++
		}
	}

	catalogNumbers := make(map[int]int, len(tables.Labels))
	for _, label := range tables.Labels {
		catalogNumbers[label.Number]++
	}
	for number, count := range catalogNumbers {
		if count > 1 {
			report.DuplicateLabelNumbers = append(report.DuplicateLabelNumbers, number)
		}
	}

	missing := make(map[int]bool)
	for _, entry := range tables.Entries {
		if len(entry.Formulations) == 0 {
			report.EntriesWithoutForms++
		}
		for _, number := range entry.LabelNumbers {
			if _, ok := catalogNumbers[number]; !ok && !missing[number] {
				missing[number] = true
				report.MissingCatalogLabels = append(report.MissingCatalogLabels, number)
			}
		}
	}

	return report
}

// findAliasCollisions returns the normalized alias keys claimed by more
// than one medication record
func findAliasCollisions(medications []warnings.MedicationRecord) []string {
	owners := make(map[string]string)
	collided := make(map[string]bool)

	for _, record := range medications {
		seen := make(map[string]bool)
		for _, alias := range record.Aliases {
			key := normalizer.Canonicalize(alias)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true

			if owner, ok := owners[key]; ok && owner != record.Name {
				collided[key] = true
				continue
			}
			owners[key] = record.Name
		}
	}

	var keys []string
	for key := range collided {
		keys = append(keys, key)
	}
	return keys
}
