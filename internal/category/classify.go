package category

import "strings"

// Classify returns the category for an item name, optionally informed by a
// store department string. Department matching runs first and short-circuits;
// otherwise the name is tested against per-category keyword lists in display
// order. Falls back to Other when nothing matches.
//
// Keywords are bilingual (Danish and English) and match as substrings, so
// "meat" matches "meatballs" and "kød" matches "Kødafdeling".
func Classify(itemName, department string) string {
	if department != "" {
		if cat, ok := classifyDepartment(department); ok {
			return cat
		}
	}

	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return Other
	}

	for _, entry := range keywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(name, kw) {
				return entry.category
			}
		}
	}
	return Other
}

// classifyDepartment maps store department names to the handful of
// categories departments can resolve directly.
func classifyDepartment(department string) (string, bool) {
	dept := strings.ToLower(department)
	for _, entry := range departmentTable {
		for _, kw := range entry.keywords {
			if strings.Contains(dept, kw) {
				return entry.category, true
			}
		}
	}
	return "", false
}

type keywordEntry struct {
	category string
	keywords []string
}

// departmentTable covers the department names the offer scraper produces
// plus their English equivalents.
var departmentTable = []keywordEntry{
	{Produce, []string{"grønt", "frugt", "fruit", "vegetable", "produce"}},
	{Dairy, []string{"mejeri", "dairy"}},
	{MeatAndFish, []string{"kød", "meat", "fisk", "fish"}},
	{Frozen, []string{"frost", "frozen"}},
}

// keywordTable is an ordered slice, not a map: an item matching keywords in
// two categories must always resolve to the earlier one.
var keywordTable = []keywordEntry{
	{Produce, []string{
		"tomato", "lettuce", "onion", "garlic", "potato", "carrot",
		"pepper", "cucumber", "apple", "banana", "orange", "lemon",
		"spinach", "broccoli", "cauliflower", "celery", "mushroom",
		"fruit", "vegetable", "salad", "avocado", "cabbage", "grape",
		"berry", "melon",
		"tomat", "løg", "hvidløg", "kartof", "gulerod", "agurk", "æble",
	}},
	{Dairy, []string{
		"milk", "cheese", "yogurt", "butter", "cream", "egg",
		"mælk", "ost", "yoghurt", "smør", "fløde", "æg",
	}},
	{MeatAndFish, []string{
		"chicken", "beef", "pork", "fish", "salmon", "sausage",
		"bacon", "meat", "turkey", "lamb", "tuna", "cod",
		"kylling", "oksekød", "svinekød", "fisk", "laks", "pølse", "kød",
	}},
	{Pantry, []string{
		"pasta", "rice", "flour", "sugar", "oil", "spice", "sauce",
		"canned", "can", "jar", "salt", "vinegar",
		"ris", "mel", "sukker", "olie", "krydderi", "dåse", "eddike",
	}},
	{Bakery, []string{
		"bread", "bun", "roll", "tortilla", "bagel", "croissant",
		"brød", "bolle", "rundstykke",
	}},
	{Frozen, []string{
		"frozen", "ice cream", "frossen", "fros",
	}},
	{Beverages, []string{
		"juice", "soda", "coffee", "tea", "water", "beer", "wine",
		"kaffe", "te", "vand", "øl", "vin",
	}},
}
