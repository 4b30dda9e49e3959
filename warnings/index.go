package warnings

import (
	"strings"

	"github.com/nicholasnlawson/dispensingpwa/normalizer"
)

// specialistMarker is the suffix some regulatory rows append to a drug name.
// It is stripped before indexing so the name matches plain queries.
const specialistMarker = "-specialist-drug"

// Index is the frozen lookup structure the resolver queries. Build it fully
// with BuildIndexes before first use; it is never mutated afterwards, so
// concurrent reads are safe.
type Index struct {
	names    map[string]*MedicationRecord
	aliases  map[string]*MedicationRecord
	warnings map[string][]*WarningEntry
	labels   map[int]WarningLabel

	medications []MedicationRecord
	catalog     []WarningLabel
}

// keyVariants returns the deduplicated normalization variants a name is
// indexed and queried under: lowercased-trimmed, basic, separator-normalized
// and canonical.
func keyVariants(s string) []string {
	variants := []string{
		normalizer.LowerTrim(s),
		normalizer.Basic(s),
		normalizer.Separators(s),
		normalizer.Canonicalize(s),
	}

	seen := make(map[string]bool, len(variants))
	keys := variants[:0]
	for _, v := range variants {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		keys = append(keys, v)
	}
	return keys
}

// StripSpecialistMarker removes the trailing specialist-drug marker from a
// raw warning-entry name, case-insensitively
func StripSpecialistMarker(name string) string {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) >= len(specialistMarker) &&
		strings.EqualFold(trimmed[len(trimmed)-len(specialistMarker):], specialistMarker) {
		return strings.TrimSpace(trimmed[:len(trimmed)-len(specialistMarker)])
	}
	return trimmed
}

// BuildIndexes constructs the frozen Index from the reference tables. Key
// collisions overwrite in source order for the name and alias indexes; the
// warning index appends, deduplicating only the exact same entry per key.
func BuildIndexes(medications []MedicationRecord, entries []WarningEntry, catalog []WarningLabel) *Index {
	idx := &Index{
		names:       make(map[string]*MedicationRecord),
		aliases:     make(map[string]*MedicationRecord),
		warnings:    make(map[string][]*WarningEntry),
		labels:      make(map[int]WarningLabel, len(catalog)),
		medications: medications,
		catalog:     catalog,
	}

	for i := range medications {
		record := &medications[i]

		for _, key := range keyVariants(record.Name) {
			idx.names[key] = record
		}
		for _, alias := range record.Aliases {
			for _, key := range keyVariants(alias) {
				idx.aliases[key] = record
			}
		}
	}

	for i := range entries {
		entry := &entries[i]

		for _, rawName := range entry.Names {
			stripped := StripSpecialistMarker(rawName)
			for _, key := range keyVariants(stripped) {
				if !containsEntry(idx.warnings[key], entry) {
					idx.warnings[key] = append(idx.warnings[key], entry)
				}
			}
		}
	}

	for _, label := range catalog {
		idx.labels[label.Number] = label
	}

	return idx
}

func containsEntry(list []*WarningEntry, entry *WarningEntry) bool {
	for _, e := range list {
		if e == entry {
			return true
		}
	}
	return false
}

// Medications returns the medication table the index was built from
func (idx *Index) Medications() []MedicationRecord {
	return idx.medications
}

// Catalog returns the full warning-label catalog in source order
func (idx *Index) Catalog() []WarningLabel {
	return idx.catalog
}

// Label looks up one catalog entry by number
func (idx *Index) Label(number int) (WarningLabel, bool) {
	label, ok := idx.labels[number]
	return label, ok
}

// LookupMedication resolves a free-text name to its medication record,
// probing the name index before the alias index under each variant key
func (idx *Index) LookupMedication(name string) (*MedicationRecord, bool) {
	for _, key := range keyVariants(name) {
		if record, ok := idx.names[key]; ok {
			return record, true
		}
	}
	for _, key := range keyVariants(name) {
		if record, ok := idx.aliases[key]; ok {
			return record, true
		}
	}
	return nil, false
}

// warningsForKey returns the entry list indexed under one exact key
func (idx *Index) warningsForKey(key string) []*WarningEntry {
	return idx.warnings[key]
}

// Counts reports index sizes for health reporting
func (idx *Index) Counts() (medications, entries, labels int) {
	entrySet := make(map[*WarningEntry]bool)
	for _, list := range idx.warnings {
		for _, e := range list {
			entrySet[e] = true
		}
	}
	return len(idx.medications), len(entrySet), len(idx.labels)
}
