// Package shorthand expands compact prescriber notation ("1t bd 7/7") into
// full dosage sentences. Fixed codes come from a static table; dosage
// quantities, ranges and durations are generated from an ordered set of
// pattern rules.
package shorthand

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled patterns, compiled once at package initialization
var (
	// Numeric tokens that must survive hyphen normalization: day/week/month
	// durations ("7/7", "2/52", "3/12") and dosage ranges ("1-2t")
	protectedTokenRegex = regexp.MustCompile(`\d+/(?:7|52|12)|\d+-\d+[a-zA-Z]+`)

	// Hyphens joining two alphanumeric code tokens behave as spaces
	hyphenJoinRegex = regexp.MustCompile(`([a-zA-Z0-9])-([a-zA-Z0-9])`)

	segmentDelimiters = ",;"
)

// unitNouns maps the single-letter dosage units to their nouns
var unitNouns = map[string]string{
	"t": "tablet",
	"c": "capsule",
	"p": "puff",
	"d": "drop",
}

// unitVerbs selects the instruction verb for a dosage range by unit
var unitVerbs = map[string]string{
	"t": "Take",
	"c": "Take",
	"p": "Inhale",
	"d": "Apply",
}

// durationNouns maps the duration denominators to their nouns
var durationNouns = map[string]string{
	"7":  "day",
	"52": "week",
	"12": "month",
}

// numberWords covers 1-20; larger quantities render as the numeral itself
var numberWords = map[int]string{
	1: "ONE", 2: "TWO", 3: "THREE", 4: "FOUR", 5: "FIVE",
	6: "SIX", 7: "SEVEN", 8: "EIGHT", 9: "NINE", 10: "TEN",
	11: "ELEVEN", 12: "TWELVE", 13: "THIRTEEN", 14: "FOURTEEN", 15: "FIFTEEN",
	16: "SIXTEEN", 17: "SEVENTEEN", 18: "EIGHTEEN", 19: "NINETEEN", 20: "TWENTY",
}

// dosageRule pairs one generative pattern with its pure rendering handler.
// Rules are tried in declaration order; the first match wins.
type dosageRule struct {
	pattern *regexp.Regexp
	handler func(captures []string) string
}

// dosageRules is the ordered generative rule table for tokens the static
// code table does not cover
var dosageRules = []dosageRule{
	{
		// Durations: 7/7 days, 2/52 weeks, 3/12 months
		pattern: regexp.MustCompile(`^(\d+)/(7|52|12)$`),
		handler: func(m []string) string {
			n, _ := strconv.Atoi(m[1])
			return "for " + numberWord(n) + " " + pluralize(durationNouns[m[2]], n != 1)
		},
	},
	{
		// Dosage ranges: 1-2t, 2-4p
		pattern: regexp.MustCompile(`^(\d+)-(\d+)([tcpd])$`),
		handler: func(m []string) string {
			low, _ := strconv.Atoi(m[1])
			high, _ := strconv.Atoi(m[2])
			return fmt.Sprintf("%s %s to %s %ss",
				unitVerbs[m[3]], numberWord(low), numberWord(high), unitNouns[m[3]])
		},
	},
	{
		// Millilitre volumes: 5ml, 2.5ml
		pattern: regexp.MustCompile(`^(\d+(?:\.\d+)?)ml$`),
		handler: func(m []string) string {
			word, _ := quantityWord(m[1])
			return word + " ml"
		},
	},
	{
		// Unit quantities: 1t, 2c, 0.5t, 1.5t
		pattern: regexp.MustCompile(`^(\d+(?:\.\d+)?)([tcpd])$`),
		handler: func(m []string) string {
			word, plural := quantityWord(m[1])
			if word == "HALF" {
				return "HALF a " + unitNouns[m[2]]
			}
			return word + " " + pluralize(unitNouns[m[2]], plural)
		},
	},
}

// numberWord renders an integer as its upper-case English word for 1-20,
// falling back to the numeral itself above that
func numberWord(n int) string {
	if word, ok := numberWords[n]; ok {
		return word
	}
	return strconv.Itoa(n)
}

// quantityWord renders a decimal quantity string as words, with half values
// spelled out: "0.5" -> "HALF", "1.5" -> "ONE AND A HALF"
func quantityWord(value string) (word string, plural bool) {
	whole, frac, hasFrac := strings.Cut(value, ".")

	n, _ := strconv.Atoi(whole)
	if !hasFrac {
		return numberWord(n), n != 1
	}

	if frac == "5" {
		if n == 0 {
			return "HALF", false
		}
		return numberWord(n) + " AND A HALF", true
	}

	// Other fractions keep the numeral as text
	return value, true
}

func pluralize(noun string, plural bool) string {
	if plural {
		return noun + "s"
	}
	return noun
}

// Expander translates shorthand instruction strings using a static code
// table plus the generative dosage rules. The table is frozen at
// construction, so a built expander is safe for concurrent use.
type Expander struct {
	codes map[string]string
}

// NewExpander builds an expander over the given code table. A nil table
// falls back to the built-in codes. Keys are matched case-insensitively.
func NewExpander(codes map[string]string) *Expander {
	if codes == nil {
		codes = DefaultCodes()
	}

	lowered := make(map[string]string, len(codes))
	for k, v := range codes {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &Expander{codes: lowered}
}

// Codes returns the number of entries in the static table
func (e *Expander) Codes() int {
	return len(e.codes)
}

// Expand translates a shorthand instruction into natural language. Input
// that translates nowhere is returned unchanged; empty input returns the
// empty string. Expand never fails.
func (e *Expander) Expand(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	prepared, placeholders := protectNumericTokens(trimmed)
	prepared = splitJoinedCodes(prepared)
	prepared = restoreNumericTokens(prepared, placeholders)

	if !strings.ContainsAny(prepared, segmentDelimiters) {
		if translated, ok := e.translateSegment(prepared); ok {
			return translated
		}
		return trimmed
	}

	segments, delims := splitSegments(prepared)

	var out strings.Builder
	anyTranslated := false
	for i, seg := range segments {
		translated, ok := e.translateSegment(seg)
		if !ok {
			translated = strings.TrimSpace(seg)
		} else {
			anyTranslated = true
		}

		out.WriteString(translated)
		if i < len(delims) {
			out.WriteString(delims[i])
			out.WriteString(" ")
		}
	}

	if !anyTranslated {
		return trimmed
	}
	return out.String()
}

// protectNumericTokens substitutes duration and range tokens with opaque
// placeholders so hyphen splitting cannot corrupt them
func protectNumericTokens(s string) (string, []string) {
	var protected []string
	replaced := protectedTokenRegex.ReplaceAllStringFunc(s, func(match string) string {
		protected = append(protected, match)
		return fmt.Sprintf("\x00%d\x00", len(protected)-1)
	})
	return replaced, protected
}

func restoreNumericTokens(s string, placeholders []string) string {
	for i, original := range placeholders {
		s = strings.Replace(s, fmt.Sprintf("\x00%d\x00", i), original, 1)
	}
	return s
}

// splitJoinedCodes turns hyphens between alphanumeric tokens into spaces so
// "1t-bd" behaves identically to "1t bd". Repeats until stable because each
// replacement consumes the neighbouring characters.
func splitJoinedCodes(s string) string {
	for {
		replaced := hyphenJoinRegex.ReplaceAllString(s, "$1 $2")
		if replaced == s {
			return s
		}
		s = replaced
	}
}

// splitSegments splits on commas and semicolons, retaining the delimiter
// identity for reconstruction
func splitSegments(s string) (segments []string, delims []string) {
	start := 0
	for i, r := range s {
		if r == ',' || r == ';' {
			segments = append(segments, s[start:i])
			delims = append(delims, string(r))
			start = i + 1
		}
	}
	segments = append(segments, s[start:])
	return segments, delims
}

// translateSegment translates one delimiter-free segment: first as a whole
// code, then token by token with untranslatable tokens passed through
func (e *Expander) translateSegment(segment string) (string, bool) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "", false
	}

	if translated, ok := e.translateToken(segment); ok {
		return translated, true
	}

	parts := strings.Fields(segment)
	if len(parts) < 2 {
		return segment, false
	}

	out := make([]string, 0, len(parts))
	anyTranslated := false
	for _, part := range parts {
		if translated, ok := e.translateToken(part); ok {
			out = append(out, translated)
			anyTranslated = true
		} else {
			out = append(out, part)
		}
	}

	if !anyTranslated {
		return segment, false
	}
	return strings.Join(out, " "), true
}

// translateToken translates one token: static table first, generative
// pattern rules only when no static entry exists
func (e *Expander) translateToken(token string) (string, bool) {
	lowered := strings.ToLower(token)

	if translated, ok := e.codes[lowered]; ok {
		return translated, true
	}

	for _, rule := range dosageRules {
		if m := rule.pattern.FindStringSubmatch(lowered); m != nil {
			return rule.handler(m), true
		}
	}

	return "", false
}
