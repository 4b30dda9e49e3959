// Package normalizer provides the canonical string forms used as index keys
// for medication name matching. Every drug name, alias and warning-entry name
// is indexed under the same normalized variants that queries are reduced to,
// so matching is a property of a single normalization pipeline.
package normalizer

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Pre-compiled regex patterns, compiled once at package initialization
var (
	// Runs of whitespace and hyphens collapse to a single space
	basicRegex = regexp.MustCompile(`[\s-]+`)

	// Combination-drug separators: "/", "-", "+", "&" and the words
	// "with"/"and", each possibly surrounded by whitespace
	separatorRegex = regexp.MustCompile(`\s*(?:[/+&-]|\bwith\b|\band\b)\s*`)

	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Strips combining marks after NFD decomposition
	accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// funcID identifies which normalization produced a cached result
type funcID uint8

const (
	fnBasic funcID = iota
	fnSeparators
	fnCanonical
)

type cacheKey struct {
	fn funcID
	in string
}

// memo is a grow-only cache shared across calls for the process lifetime.
// The resolver normalizes every query and every index key through these
// functions, so repeated inputs are common.
var memo = struct {
	sync.RWMutex
	m map[cacheKey]string
}{m: make(map[cacheKey]string)}

func cached(fn funcID, in string, compute func(string) string) string {
	key := cacheKey{fn: fn, in: in}

	memo.RLock()
	out, ok := memo.m[key]
	memo.RUnlock()
	if ok {
		return out
	}

	out = compute(in)

	memo.Lock()
	memo.m[key] = out
	memo.Unlock()

	return out
}

// ResetCache clears the memo table. Only needed on full reinitialization.
func ResetCache() {
	memo.Lock()
	memo.m = make(map[cacheKey]string)
	memo.Unlock()
}

// CacheSize returns the number of memoized entries
func CacheSize() int {
	memo.RLock()
	defer memo.RUnlock()
	return len(memo.m)
}

// foldAccents lowercases and strips diacritics so "Paracétamol" and
// "Paracetamol" reduce to the same key
func foldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, strings.ToLower(s))
	if err != nil {
		// Transform failures leave the lowercased input as-is
		return strings.ToLower(s)
	}
	return folded
}

// Basic lowercases, trims and collapses runs of hyphens and whitespace to
// single spaces. Returns "" for empty input. Total and idempotent.
func Basic(s string) string {
	return cached(fnBasic, s, func(in string) string {
		folded := foldAccents(in)
		return strings.TrimSpace(basicRegex.ReplaceAllString(folded, " "))
	})
}

// Separators lowercases and trims, then treats the combination-drug
// separators "/", "-", "+", "&", "with" and "and" as semantically
// equivalent by replacing each with a single space. Total and idempotent.
func Separators(s string) string {
	return cached(fnSeparators, s, func(in string) string {
		folded := foldAccents(in)
		replaced := separatorRegex.ReplaceAllString(folded, " ")
		return strings.TrimSpace(whitespaceRegex.ReplaceAllString(replaced, " "))
	})
}

// Canonicalize applies Separators, then sorts the resulting words
// lexicographically and rejoins them with single spaces. The result is
// word-order independent: "Warfarin Sodium" and "Sodium Warfarin"
// canonicalize identically. Total and idempotent.
func Canonicalize(s string) string {
	return cached(fnCanonical, s, func(in string) string {
		separated := Separators(in)
		if separated == "" {
			return ""
		}

		words := strings.Fields(separated)
		sort.Strings(words)
		return strings.Join(words, " ")
	})
}

// LowerTrim is the rawest variant key: lowercased, accent-folded and
// trimmed, with interior spacing untouched
func LowerTrim(s string) string {
	return strings.TrimSpace(foldAccents(s))
}
