// =============================================================================
// Timetable - Venue Text Scanner
// =============================================================================
//
// The room allotment chart is a grid: one row per lecture hall, one column
// per hour, course codes in the cells. Text extraction linearizes it, and
// the hall label does not always come before its courses. The scanner walks
// the lines in order with two pieces of state:
//
//   current  - the most recently seen venue, carried forward to later lines
//   pending  - codes seen while no venue was current, waiting for the next one
//
// A header row ("Room | 8-9 | ..." or "Room | Day | ...") starts a new
// section and clears both.
//
// =============================================================================

package venue

import (
	"fmt"
	"regexp"
)

// ScannerOptions configures a Scanner.
type ScannerOptions struct {
	// CodePattern overrides DefaultCodePattern.
	CodePattern string
}

// Scanner is the carry-forward state machine. The zero value is not usable;
// create one with NewScanner. A Scanner is owned by one scan and is not safe
// for concurrent use.
type Scanner struct {
	codes *regexp.Regexp

	current    string
	hasCurrent bool
	pending    []string

	assoc      Association
	unresolved []string
}

// NewScanner compiles the code pattern and returns an empty Scanner.
func NewScanner(opts ScannerOptions) (*Scanner, error) {
	pattern := opts.CodePattern
	if pattern == "" {
		pattern = DefaultCodePattern
	}
	codes, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid course code pattern %q: %w", pattern, err)
	}
	return &Scanner{
		codes: codes,
		assoc: make(Association),
	}, nil
}

// Feed processes one line.
func (s *Scanner) Feed(line string) {
	if IsHeader(line) {
		s.Reset()
		return
	}

	codes := s.lineCodes(line)

	if venue, ok := FindVenue(line); ok {
		s.current, s.hasCurrent = venue, true
		for _, code := range s.pending {
			s.assoc.Add(code, venue)
		}
		s.pending = s.pending[:0]
		for _, code := range codes {
			s.assoc.Add(code, venue)
		}
		return
	}

	if s.hasCurrent {
		for _, code := range codes {
			s.assoc.Add(code, s.current)
		}
		return
	}
	s.pending = append(s.pending, codes...)
}

// Reset forgets the current venue and drops any pending codes. Dropped codes
// are kept for Unresolved.
func (s *Scanner) Reset() {
	s.unresolved = append(s.unresolved, s.pending...)
	s.pending = nil
	s.current, s.hasCurrent = "", false
}

// Result returns the association built so far.
func (s *Scanner) Result() Association {
	return s.assoc
}

// Unresolved returns codes that were discarded without meeting a venue,
// including those still pending. They are never part of the Result.
func (s *Scanner) Unresolved() []string {
	out := make([]string, 0, len(s.unresolved)+len(s.pending))
	out = append(out, s.unresolved...)
	return append(out, s.pending...)
}

// lineCodes returns the course codes on the line that are not themselves
// venue labels.
func (s *Scanner) lineCodes(line string) []string {
	matches := s.codes.FindAllString(line, -1)
	codes := matches[:0]
	for _, m := range matches {
		if IsVenueLabel(m) {
			continue
		}
		codes = append(codes, m)
	}
	return codes
}

// Scan runs a fresh scanner over lines and returns the association.
func Scan(lines []string) Association {
	s, _ := NewScanner(ScannerOptions{})
	for _, line := range lines {
		s.Feed(line)
	}
	return s.Result()
}

// ScanPages feeds every page's lines through s in order. With resetOnPage
// the carry-forward state is cleared at the start of each page; otherwise
// page boundaries are ignored.
func ScanPages(s *Scanner, pages [][]string, resetOnPage bool) Association {
	for _, page := range pages {
		if resetOnPage {
			s.Reset()
		}
		for _, line := range page {
			s.Feed(line)
		}
	}
	return s.Result()
}
