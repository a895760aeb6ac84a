package venue

import (
	"sort"
	"strings"
)

// VenueSeparator joins multiple venues of one course.
const VenueSeparator = ", "

// Association maps a course code to the set of venues it was seen with.
type Association map[string]map[string]struct{}

// Add records that code meets in venue.
func (a Association) Add(code, venue string) {
	set, ok := a[code]
	if !ok {
		set = make(map[string]struct{})
		a[code] = set
	}
	set[venue] = struct{}{}
}

// Venues returns the sorted venues for code, or nil when unknown.
func (a Association) Venues(code string) []string {
	set := a[code]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Format returns the sorted venues for code joined with VenueSeparator.
func (a Association) Format(code string) string {
	return strings.Join(a.Venues(code), VenueSeparator)
}

// Codes returns every mapped course code, sorted.
func (a Association) Codes() []string {
	out := make([]string, 0, len(a))
	for code := range a {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
