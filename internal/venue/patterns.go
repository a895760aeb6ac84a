package venue

import (
	"regexp"
	"strings"
)

// venueShapes are the lecture-hall label shapes the room chart uses:
// LH 123, LH123 and LH 413.1; III LT 1; II 301; IIA 301; DH.
// Labels outside these shapes are invisible to the scanner.
var venueShapes = []string{
	`LH\s?\d{3}(\.\d+)?`,
	`[IV]{1,3}\s?LT\s?\d`,
	`[IV]{1,3}\s?\d{3}`,
	`IIA\s?\d{3}`,
	`\bDH\b`,
}

// DefaultCodePattern matches course codes such as COL106, AMD5050 and ELL780P.
const DefaultCodePattern = `\b[A-Z]{3}\d{3,4}[A-Z]?\b`

var (
	venuePattern     = regexp.MustCompile(`(` + strings.Join(venueShapes, "|") + `)`)
	venueFullPattern = regexp.MustCompile(`^(?:` + strings.Join(venueShapes, "|") + `)$`)
)

// headerMarker is the first word of the chart's column header rows.
const headerMarker = "Room"

// headerHints are substrings of which at least one appears in a header row:
// the first hour column or the day column.
var headerHints = []string{"8-9", "Day"}

// IsHeader reports whether the line is a table header row of the chart.
func IsHeader(line string) bool {
	if !strings.HasPrefix(line, headerMarker) {
		return false
	}
	for _, hint := range headerHints {
		if strings.Contains(line, hint) {
			return true
		}
	}
	return false
}

// FindVenue returns the first venue label on the line, whitespace-collapsed.
func FindVenue(line string) (string, bool) {
	m := venuePattern.FindString(line)
	if m == "" {
		return "", false
	}
	return NormalizeVenue(m), true
}

// NormalizeVenue collapses runs of whitespace to one space.
func NormalizeVenue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// IsVenueLabel reports whether s is, in its entirety, a venue label.
func IsVenueLabel(s string) bool {
	return venueFullPattern.MatchString(s)
}
