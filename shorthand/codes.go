package shorthand

// DefaultCodes is the built-in shorthand mapping table: frequencies, routes
// and whole-clause special instructions. Dosage quantities and durations are
// not listed here; they follow the generative patterns in expander.go and
// are only consulted when no static entry exists for the exact token.
func DefaultCodes() map[string]string {
	return map[string]string{
		// Frequencies
		"od":   "ONCE a day",
		"bd":   "TWICE a day",
		"tds":  "THREE times a day",
		"tid":  "THREE times a day",
		"qds":  "FOUR times a day",
		"qid":  "FOUR times a day",
		"om":   "every MORNING",
		"on":   "every NIGHT",
		"mane": "in the MORNING",
		"nocte": "at NIGHT",
		"eod":  "every OTHER day",
		"altd": "on ALTERNATE days",
		"qqh":  "every FOUR hours",
		"q4h":  "every FOUR hours",
		"q6h":  "every SIX hours",
		"q8h":  "every EIGHT hours",
		"prn":  "when required",
		"stat": "IMMEDIATELY",

		// Timing with food
		"ac": "before food",
		"pc": "after food",
		"wf": "with food",
		"cc": "with food",

		// Routes
		"po":  "by mouth",
		"pr":  "rectally",
		"pv":  "vaginally",
		"sl":  "under the tongue",
		"im":  "into a muscle",
		"iv":  "into a vein",
		"sc":  "under the skin",
		"neb": "via a nebuliser",
		"inh": "to be inhaled",
		"top": "applied topically",

		// Special instructions
		"shake":    "Shake the bottle well before use",
		"mdu":      "as directed",
		"asd":      "as directed",
		"ud":       "as directed",
		"disp":     "to be dispersed in water",
		"cf":       "with or after food",
		"wsw":      "whole, with water",
		"spacer":   "via a spacer device",
		"rinse":    "Rinse your mouth with water after use",
		"complete": "Complete the prescribed course",
	}
}
