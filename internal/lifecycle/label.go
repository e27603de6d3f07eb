package lifecycle

import (
	"fmt"
	"strings"

	"mushtrack/internal/models"
)

// Abbreviation returns the short code used in batch labels for a
// variety. The stored short-code wins; otherwise the first two letters
// of the name, uppercased; "??" when the variety is unknown entirely.
func Abbreviation(name, shortCode string) string {
	if shortCode != "" {
		return shortCode
	}
	runes := []rune(strings.TrimSpace(name))
	if len(runes) == 0 {
		return "??"
	}
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// Label derives the human-readable batch label, e.g. "BO07/05/24" for a
// Blue Oyster batch inoculated 2024-05-07. Labels are display-only and
// not guaranteed unique.
func Label(abbr string, inoculated models.LocalDate) string {
	return fmt.Sprintf("%s%02d/%02d/%02d",
		abbr, inoculated.Day(), int(inoculated.Month()), inoculated.Year()%100)
}

// SplitLabel marks a child created by splitting units off a parent.
func SplitLabel(parentLabel string) string {
	return parentLabel + "-S"
}
