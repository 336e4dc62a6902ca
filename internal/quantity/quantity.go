// Package quantity merges free-text quantity strings like "500 g" or "2".
package quantity

import (
	"strconv"
	"strings"
)

// Merge combines two free-text quantities into one. The leading token of
// each string is parsed as a number and the magnitudes are summed; the unit
// tokens of the existing quantity win, falling back to the incoming ones.
// Empty quantities count as "1".
//
// If either leading token is not numeric the quantities cannot be combined
// arithmetically, and Merge returns "<existing> + <incoming>" so nothing the
// user typed is lost.
func Merge(existing, incoming string) string {
	existing = strings.TrimSpace(existing)
	incoming = strings.TrimSpace(incoming)
	if existing == "" {
		existing = "1"
	}
	if incoming == "" {
		incoming = "1"
	}

	existingFields := strings.Fields(existing)
	incomingFields := strings.Fields(incoming)

	existingNum, err1 := strconv.ParseFloat(existingFields[0], 64)
	incomingNum, err2 := strconv.ParseFloat(incomingFields[0], 64)
	if err1 != nil || err2 != nil {
		return existing + " + " + incoming
	}

	total := existingNum + incomingNum

	unit := existingFields[1:]
	if len(unit) == 0 {
		unit = incomingFields[1:]
	}

	merged := formatMagnitude(total)
	if len(unit) > 0 {
		merged += " " + strings.Join(unit, " ")
	}
	return merged
}

// formatMagnitude prints integral sums without a trailing ".0".
func formatMagnitude(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
