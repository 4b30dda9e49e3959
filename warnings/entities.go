// Package warnings resolves free-text medication names and dosage forms to
// the regulatory warning-label numbers that apply to them. It builds
// immutable lookup indexes over the reference tables once, then answers
// queries without further allocation or I/O.
package warnings

// MedicationRecord is one canonical medication identity with the spelling
// variants it is known under. Identity is the canonical name.
type MedicationRecord struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// WarningEntry links the drug names of one regulatory row to the free-text
// formulations it covers and the warning-label numbers it assigns. Names
// appear exactly as in the source, possibly carrying the specialist-drug
// marker suffix.
type WarningEntry struct {
	Names        []string `json:"names"`
	Formulations []string `json:"formulations"`
	LabelNumbers []int    `json:"labelNumbers"`
}

// WarningLabel is one catalog sentence, keyed by its label number
type WarningLabel struct {
	Number int    `json:"labelNumber"`
	Text   string `json:"text"`
}
