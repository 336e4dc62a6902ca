package category

// The closed set of shopping list categories. Classification only ever
// produces one of these; consumers rely on the exact strings and on
// DisplayOrder for rendering.
const (
	Produce     = "Produce"
	Dairy       = "Dairy"
	MeatAndFish = "Meat & Fish"
	Pantry      = "Pantry"
	Bakery      = "Bakery"
	Frozen      = "Frozen"
	Beverages   = "Beverages"
	Other       = "Other"
)

// DisplayOrder is the fixed display priority for categories. Grouped views
// surface categories in this order; anything outside the set sorts last.
var DisplayOrder = []string{
	Produce,
	Dairy,
	MeatAndFish,
	Pantry,
	Bakery,
	Frozen,
	Beverages,
	Other,
}

// Rank returns the display priority of a category, with unknown categories
// after all known ones.
func Rank(cat string) int {
	for i, c := range DisplayOrder {
		if c == cat {
			return i
		}
	}
	return len(DisplayOrder)
}

// Valid reports whether cat is one of the closed category set.
func Valid(cat string) bool {
	for _, c := range DisplayOrder {
		if c == cat {
			return true
		}
	}
	return false
}
