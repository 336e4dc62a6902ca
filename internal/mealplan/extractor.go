// Package mealplan extracts shopping list candidates from LLM-authored
// meal plan documents.
package mealplan

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/madplan/kurv/internal/category"
	"github.com/madplan/kurv/internal/model"
)

var (
	// The shopping list section starts at a "## Shopping List" header and
	// runs to the next ##-level header (### category headers belong to the
	// section) or end of document.
	sectionStartRe = regexp.MustCompile(`(?i)^##\s*shopping list\b`)
	sectionEndRe   = regexp.MustCompile(`^##([^#]|$)`)

	// Two category header conventions are accepted: "### Produce" and
	// "**Produce:**". They stay as separate patterns because their trailing
	// captures differ.
	headerRe     = regexp.MustCompile(`^###\s*(.+)$`)
	boldHeaderRe = regexp.MustCompile(`^\*\*(.+?)[:*]+`)

	itemRe = regexp.MustCompile(`^[-*•]\s*(.+)$`)

	// Trailing "(19,95 kr)" style price, decimal comma or dot.
	priceRe = regexp.MustCompile(`\s*\(([0-9,.]+)\s*kr\)$`)

	// Leading quantity: a number optionally followed by a known unit,
	// then whitespace and the item name.
	quantityRe = regexp.MustCompile(`(?i)^([0-9.,]+\s*(?:kg|g|l|ml|stk|pcs?|piece|pieces)?)\s+(.+)$`)
)

// Extract scans a meal plan document for the shopping list section and
// returns the candidate items found there, plus whether the section existed
// at all. A missing section yields (nil, false) — a normal outcome the
// caller should report, not an error. Malformed lines are skipped.
func Extract(document string) ([]model.CandidateItem, bool) {
	lines := strings.Split(document, "\n")

	start := -1
	for i, line := range lines {
		if sectionStartRe.MatchString(strings.TrimSpace(line)) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	var items []model.CandidateItem
	currentCategory := category.Other

	for _, raw := range lines[start:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if sectionEndRe.MatchString(line) {
			break
		}

		if h := headerRe.FindStringSubmatch(line); h != nil {
			currentCategory = strings.TrimSpace(h[1])
			continue
		}
		if h := boldHeaderRe.FindStringSubmatch(line); h != nil {
			currentCategory = strings.TrimSpace(h[1])
			continue
		}

		if im := itemRe.FindStringSubmatch(line); im != nil {
			if item, ok := parseItemLine(strings.TrimSpace(im[1]), currentCategory); ok {
				items = append(items, item)
			}
		}
		// Anything else is prose; ignore it.
	}

	return items, true
}

// parseItemLine splits "1 kg Tomatoes (19,95 kr)" into quantity, name, and
// price. Price and quantity are both optional; an empty name discards the
// candidate.
func parseItemLine(text, cat string) (model.CandidateItem, bool) {
	var price *float64
	if pm := priceRe.FindStringSubmatch(text); pm != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(pm[1], ",", "."), 64); err == nil {
			price = &v
		}
		text = strings.TrimSpace(priceRe.ReplaceAllString(text, ""))
	}

	if text == "" {
		return model.CandidateItem{}, false
	}

	var qty, name string
	if qm := quantityRe.FindStringSubmatch(text); qm != nil {
		qty = strings.TrimSpace(qm[1])
		name = strings.TrimSpace(qm[2])
	} else {
		name = text
	}

	if name == "" {
		return model.CandidateItem{}, false
	}

	return model.CandidateItem{
		ItemName:      name,
		Quantity:      qty,
		Category:      cat,
		PriceEstimate: price,
		Source:        model.SourceMealPlan,
	}, true
}
