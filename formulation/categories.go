package formulation

// DefaultCategories is the built-in dosage-form alias table, used when the
// reference data does not supply one. Declaration order is the matching
// precedence: more specific forms come before the generic ones they contain.
func DefaultCategories() []Category {
	return []Category{
		{Key: "modified_release_tablet", Aliases: []string{
			"modified-release tablet", "modified release tablet", "m/r tablet",
			"mr tablet", "slow-release tablet", "slow release tablet",
			"sustained-release tablet", "sustained release tablet", "sr tablet",
			"prolonged-release tablet", "prolonged release tablet", "xl tablet",
			"la tablet", "retard tablet",
		}},
		{Key: "modified_release_capsule", Aliases: []string{
			"modified-release capsule", "modified release capsule", "m/r capsule",
			"mr capsule", "slow-release capsule", "slow release capsule",
			"sustained-release capsule", "sustained release capsule", "sr capsule",
			"prolonged-release capsule", "prolonged release capsule",
		}},
		{Key: "dispersible_tablet", Aliases: []string{
			"dispersible tablet", "soluble tablet", "effervescent tablet",
			"orodispersible tablet", "melt", "oral lyophilisate",
		}},
		{Key: "chewable_tablet", Aliases: []string{
			"chewable tablet", "chew tab",
		}},
		{Key: "buccal_sublingual", Aliases: []string{
			"sublingual tablet", "buccal tablet", "sublingual spray",
		}},
		{Key: "oral_tablet", Aliases: []string{
			"tablet", "tab", "oral tablet", "film-coated tablet",
			"coated tablet", "caplet",
		}},
		{Key: "oral_capsule", Aliases: []string{
			"capsule", "cap", "oral capsule", "hard capsule", "soft capsule",
		}},
		{Key: "oral_liquid", Aliases: []string{
			"oral liquid", "liquid", "oral solution", "solution",
			"oral suspension", "suspension", "syrup", "mixture", "elixir",
			"linctus", "sugar-free oral solution", "oral drops",
		}},
		{Key: "oral_powder", Aliases: []string{
			"powder", "oral powder", "sachet", "granules",
		}},
		{Key: "inhaler", Aliases: []string{
			"inhaler", "inhalation", "aerosol inhaler", "dry powder inhaler",
			"metered dose inhaler", "mdi", "inhalation powder",
			"pressurised inhalation",
		}},
		{Key: "nebuliser_liquid", Aliases: []string{
			"nebuliser liquid", "nebuliser solution", "nebule",
			"nebuliser suspension",
		}},
		{Key: "injection", Aliases: []string{
			"injection", "solution for injection", "injectable",
			"pre-filled pen", "pre-filled syringe", "prefilled syringe",
		}},
		{Key: "eye_drops", Aliases: []string{
			"eye drops", "eye drop", "ophthalmic drops", "eye gel",
			"eye ointment",
		}},
		{Key: "ear_drops", Aliases: []string{
			"ear drops", "ear drop", "otic drops",
		}},
		{Key: "nasal", Aliases: []string{
			"nasal spray", "nasal drops", "nasal ointment",
		}},
		{Key: "topical", Aliases: []string{
			"cream", "ointment", "gel", "lotion", "topical solution",
			"topical spray", "emollient",
		}},
		{Key: "transdermal_patch", Aliases: []string{
			"patch", "transdermal patch", "plaster",
		}},
		{Key: "suppository", Aliases: []string{
			"suppository", "suppositories", "rectal suppository",
		}},
		{Key: "pessary", Aliases: []string{
			"pessary", "pessaries", "vaginal tablet", "vaginal cream",
		}},
		{Key: "enema", Aliases: []string{
			"enema", "rectal solution", "rectal foam",
		}},
	}
}
