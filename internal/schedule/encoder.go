// =============================================================================
// Timetable - Schedule Encoder
// =============================================================================
//
// This module turns the compact day/time strings found in the course export
// into canonical, machine-sortable schedule tokens.
//
// INPUT FORMAT:
//   "MTh 09:30-11:00"            one segment, two days
//   "TF 8:00-9:00, W 14:00-15:00" several comma separated segments
//
// CANONICAL FORMAT:
//   Each (day, start, end) occurrence becomes a 9 character token:
//     D HHMM HHMM   ->  "109301100"
//   Tokens are joined with commas in input order:
//     "MTh 09:30-11:00" -> "109301100,409301100"
//
// DAY CODES:
//   M=1  T=2  W=3  Th=4  F=5  S=6  Su=7
//   Two letter abbreviations are always tried before single letters, so the
//   "T" in "Th" is never read as Tuesday.
//
// =============================================================================

package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// DAY TABLE
// =============================================================================

// twoLetterDays are tested before singleLetterDays at every position.
var twoLetterDays = map[string]int{
	"Th": 4,
	"Su": 7,
}

var singleLetterDays = map[byte]int{
	'M': 1,
	'T': 2,
	'W': 3,
	'F': 5,
	'S': 6,
}

// segmentPattern isolates the leading day run and the two clock times of a
// single segment. It is a search, not an anchored match, so stray text around
// a well-formed segment is tolerated.
var segmentPattern = regexp.MustCompile(`([A-Za-z]+)\s+(\d{1,2}:\d{2})-(\d{1,2}:\d{2})`)

// =============================================================================
// ENCODING
// =============================================================================

// Encode parses a raw schedule string into a Schedule.
//
// Segments that do not look like "<days> <start>-<end>" are skipped; they do
// not invalidate the rest of the string. When no token at all can be produced
// the result is nil, which serializes as JSON null.
func Encode(raw string) Schedule {
	var tokens Schedule

	for _, segment := range strings.Split(raw, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		match := segmentPattern.FindStringSubmatch(segment)
		if match == nil {
			continue
		}

		start, ok := parseClock(match[2])
		if !ok {
			continue
		}
		end, ok := parseClock(match[3])
		if !ok {
			continue
		}

		for _, day := range tokenizeDays(match[1]) {
			tokens = append(tokens, Token{Day: day, Start: start, End: end})
		}
	}

	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// tokenizeDays splits a run of day letters into day codes using greedy
// longest match. Letters that are not a known abbreviation are dropped.
func tokenizeDays(run string) []int {
	var days []int

	for i := 0; i < len(run); {
		if i+1 < len(run) {
			if day, ok := twoLetterDays[run[i:i+2]]; ok {
				days = append(days, day)
				i += 2
				continue
			}
		}
		if day, ok := singleLetterDays[run[i]]; ok {
			days = append(days, day)
		}
		i++
	}

	return days
}

// parseClock reads "H:MM" or "HH:MM". The minute part is kept verbatim.
func parseClock(s string) (Clock, bool) {
	hour, minute, found := strings.Cut(s, ":")
	if !found {
		return Clock{}, false
	}
	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 99 {
		return Clock{}, false
	}
	if len(minute) != 2 {
		return Clock{}, false
	}
	return Clock{Hour: h, Minute: minute}, true
}

// =============================================================================
// TOKEN TYPES
// =============================================================================

// Clock is a time of day as it appeared in the export.
type Clock struct {
	Hour int

	// Minute is the two digit minute text, not re-formatted.
	Minute string
}

// String returns the zero padded HHMM form.
func (c Clock) String() string {
	return fmt.Sprintf("%02d%s", c.Hour, c.Minute)
}

// Token is one weekly meeting occurrence.
type Token struct {
	Day   int
	Start Clock
	End   Clock
}

// String returns the 9 character canonical form, e.g. "109301100".
func (t Token) String() string {
	return strconv.Itoa(t.Day) + t.Start.String() + t.End.String()
}
