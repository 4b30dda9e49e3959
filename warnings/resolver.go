package warnings

import (
	"strings"

	"github.com/nicholasnlawson/dispensingpwa/formulation"
	"github.com/nicholasnlawson/dispensingpwa/normalizer"
)

// queryKeyOrder is the authoritative precedence of normalization forms used
// when probing the warning index. The exact basic form is preferred over the
// word-sorted canonical form so combination drugs cannot over-match through
// word-sort collisions; the raw lowercased form comes last.
var queryKeyOrder = []func(string) string{
	normalizer.Basic,
	normalizer.Canonicalize,
	normalizer.LowerTrim,
}

// Resolver answers "which warning-label numbers apply to this drug and
// formulation". It is a pure lookup over a frozen Index; it never returns
// an error, because an unmatched query is a normal outcome.
type Resolver struct {
	idx        *Index
	classifier *formulation.Classifier
}

// NewResolver creates a resolver over a built index
func NewResolver(idx *Index, classifier *formulation.Classifier) *Resolver {
	if classifier == nil {
		classifier = formulation.NewClassifier(nil)
	}
	return &Resolver{idx: idx, classifier: classifier}
}

// Index returns the underlying index
func (r *Resolver) Index() *Index {
	return r.idx
}

// Classifier returns the formulation classifier in use
func (r *Resolver) Classifier() *formulation.Classifier {
	return r.classifier
}

// Resolve maps a free-text drug name and formulation to the label numbers
// of the first warning entry matching both. Empty input, an unknown drug or
// an inapplicable formulation all yield an empty result.
func (r *Resolver) Resolve(drugName, form string) []int {
	if strings.TrimSpace(drugName) == "" || strings.TrimSpace(form) == "" {
		return []int{}
	}

	normForm := strings.ToLower(strings.TrimSpace(form))
	stdForm := r.classifier.Classify(normForm)

	candidates := r.directCandidates(drugName)
	if len(candidates) == 0 {
		candidates = r.recordCandidates(drugName)
	}

	for _, entry := range candidates {
		if r.entryMatchesForm(entry, normForm, stdForm) {
			return entry.LabelNumbers
		}
	}

	return []int{}
}

// ResolveLabels resolves and expands the label numbers into full catalog
// entries, skipping numbers absent from the catalog
func (r *Resolver) ResolveLabels(drugName, form string) []WarningLabel {
	numbers := r.Resolve(drugName, form)
	labels := make([]WarningLabel, 0, len(numbers))
	for _, n := range numbers {
		if label, ok := r.idx.Label(n); ok {
			labels = append(labels, label)
		}
	}
	return labels
}

// directCandidates probes the warning index with each normalization form of
// the query in precedence order, taking the first non-empty hit
func (r *Resolver) directCandidates(drugName string) []*WarningEntry {
	for _, keyFn := range queryKeyOrder {
		if list := r.idx.warningsForKey(keyFn(drugName)); len(list) > 0 {
			return list
		}
	}
	return nil
}

// recordCandidates resolves the query to a medication record and re-probes
// the warning index with the record's canonical name and every alias. This
// lets a brand name reach an entry indexed under the clinical name.
func (r *Resolver) recordCandidates(drugName string) []*WarningEntry {
	record, ok := r.idx.LookupMedication(drugName)
	if !ok {
		return nil
	}

	probes := make([]string, 0, 1+len(record.Aliases))
	probes = append(probes, record.Name)
	probes = append(probes, record.Aliases...)

	for _, probe := range probes {
		for _, keyFn := range []func(string) string{normalizer.Basic, normalizer.Canonicalize} {
			if list := r.idx.warningsForKey(keyFn(probe)); len(list) > 0 {
				return list
			}
		}
	}
	return nil
}

// entryMatchesForm tests one entry's formulation strings against the query
// formulation: substring containment either direction on the raw form, the
// same on the classified form, or category similarity
func (r *Resolver) entryMatchesForm(entry *WarningEntry, normForm, stdForm string) bool {
	lowerStd := strings.ToLower(stdForm)

	for _, entryForm := range entry.Formulations {
		ef := strings.ToLower(strings.TrimSpace(entryForm))
		if ef == "" {
			continue
		}

		if strings.Contains(ef, normForm) || strings.Contains(normForm, ef) {
			return true
		}
		if lowerStd != "" && (strings.Contains(ef, lowerStd) || strings.Contains(lowerStd, ef)) {
			return true
		}
		if r.classifier.AreSimilar(normForm, ef) {
			return true
		}
	}
	return false
}
