// Package formulation maps free-text dosage-form descriptions to canonical
// formulation categories. Matching is alias-table driven and tolerant of
// singular/plural spelling.
package formulation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category groups the free-text spellings of one dosage form under a stable
// key. Alias order matters for matching precedence within a category.
type Category struct {
	Key     string   `json:"key"`
	Aliases []string `json:"aliases"`
}

var titleCaser = cases.Title(language.English)

// Classifier resolves formulation strings against an ordered category table.
// The table is frozen at construction; Classify iterates it in declaration
// order and the first matching category wins.
type Classifier struct {
	categories []Category
}

// NewClassifier builds a classifier over the given alias table. A nil or
// empty table falls back to the built-in category set.
func NewClassifier(categories []Category) *Classifier {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	return &Classifier{categories: categories}
}

// Categories returns the table the classifier was built with
func (c *Classifier) Categories() []Category {
	return c.categories
}

// matchesAlias reports whether the input equals the alias exactly or with
// the trailing "s" toggled. Both strings must already be lowercased.
func matchesAlias(alias, input string) bool {
	if alias == input {
		return true
	}
	if strings.TrimSuffix(alias, "s") == input || strings.TrimSuffix(input, "s") == alias {
		return true
	}
	return false
}

// containsAliasWord reports whether the alias appears in the input bounded
// by spaces, so multi-word descriptions like "sugar-free oral solution"
// still classify by the alias they contain.
func containsAliasWord(alias, input string) bool {
	if !strings.Contains(input, alias) {
		return false
	}
	padded := " " + input + " "
	return strings.Contains(padded, " "+alias+" ") ||
		strings.Contains(padded, " "+alias+"s ")
}

// Label converts a category key into its human-readable form:
// "oral_tablet" becomes "Oral Tablet".
func Label(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

// Classify maps a free-text formulation to its category label. Empty input
// returns the empty string; unrecognized input passes through
// lowercased-trimmed, since "no category" is a normal outcome.
func (c *Classifier) Classify(formText string) string {
	input := strings.ToLower(strings.TrimSpace(formText))
	if input == "" {
		return ""
	}

	for _, cat := range c.categories {
		for _, alias := range cat.Aliases {
			if matchesAlias(alias, input) {
				return Label(cat.Key)
			}
		}
	}

	// Second pass: the description may contain a recognized form name
	// inside a longer phrase
	for _, cat := range c.categories {
		for _, alias := range cat.Aliases {
			if containsAliasWord(alias, input) {
				return Label(cat.Key)
			}
		}
	}

	return input
}

// AreSimilar reports whether two formulation strings describe the same
// dosage form. Symmetric and reflexive by construction.
func (c *Classifier) AreSimilar(formA, formB string) bool {
	a := strings.ToLower(strings.TrimSpace(formA))
	b := strings.ToLower(strings.TrimSpace(formB))

	if a == b {
		return true
	}

	if c.Classify(a) == c.Classify(b) {
		return true
	}

	// Both may appear in the same category's alias list even when their
	// classifications pass through differently
	for _, cat := range c.categories {
		foundA, foundB := false, false
		for _, alias := range cat.Aliases {
			if matchesAlias(alias, a) {
				foundA = true
			}
			if matchesAlias(alias, b) {
				foundB = true
			}
		}
		if foundA && foundB {
			return true
		}
	}

	return false
}
