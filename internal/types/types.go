// =============================================================================
// Timetable - Shared Types
// =============================================================================
//
// This package contains the course record model shared by the catalogue
// builder, the venue merger, the validators and the writers. Keeping it here
// avoids import cycles between those packages.
//
// The JSON field names are the artifact's public contract and must not change.
//
// =============================================================================

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/itxprashant/IITD-timetable-generator/internal/schedule"
)

// =============================================================================
// COURSE RECORD
// =============================================================================

// CourseRecord is one normalized row of the course export.
type CourseRecord struct {
	// CourseCode is the unique key, e.g. "COL106". Never empty.
	CourseCode string `json:"courseCode"`

	// CourseName is the title with the code suffix stripped.
	CourseName string `json:"courseName"`

	// SemesterCode tags every record of a run with the semester it describes.
	SemesterCode string `json:"semesterCode"`

	// TotalCredits is lecture + tutorial + practical/2.
	TotalCredits float64 `json:"totalCredits"`

	// CreditStructure is the weekly L-T-P hour triple.
	CreditStructure CreditStructure `json:"creditStructure"`

	// Instructor is "N/A" when no email anchor was found.
	Instructor string `json:"instructor"`

	// CurrentStrength is the raw enrolment text of the last column.
	CurrentStrength string `json:"currentStrength"`

	Slot Slot `json:"slot"`

	// LectureHall is only ever set by the venue merge.
	LectureHall *string `json:"lectureHall"`
}

// Slot groups the slot label with the lecture, tutorial and lab timings.
type Slot struct {
	Name string `json:"name"`

	// LectureTiming is the canonical schedule, null when unparsable.
	LectureTiming schedule.Schedule `json:"lectureTiming"`

	// LectureTimingStr is the raw text the timing was parsed from.
	LectureTimingStr string `json:"lectureTimingStr"`

	// TutorialTiming and LabTiming are reserved and always null.
	TutorialTiming schedule.Schedule `json:"tutorialTiming"`
	LabTiming      schedule.Schedule `json:"labTiming"`
}

// Venue returns the lecture hall or "" when unset.
func (r *CourseRecord) Venue() string {
	if r.LectureHall == nil {
		return ""
	}
	return *r.LectureHall
}

// =============================================================================
// CREDIT STRUCTURE
// =============================================================================

// CreditStructure is the (lecture, tutorial, practical) weekly hour triple.
//
// It serializes as the export's "L-T-P" text because consumers of the
// artifact split it on "-". Raw keeps the exact source text so that a
// catalogue written and re-read is byte-identical.
type CreditStructure struct {
	Lecture   float64
	Tutorial  float64
	Practical float64

	// Raw is the source text, e.g. "3.0-0.0-2.0".
	Raw string
}

// ParseCreditStructure reads "L-T-P". Text that is not three finite,
// non-negative numbers gives the zero triple; Raw is kept either way.
func ParseCreditStructure(raw string) CreditStructure {
	cs := CreditStructure{Raw: strings.TrimSpace(raw)}

	parts := strings.Split(cs.Raw, "-")
	if len(parts) != 3 {
		return cs
	}

	var values [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return cs
		}
		values[i] = v
	}

	cs.Lecture, cs.Tutorial, cs.Practical = values[0], values[1], values[2]
	return cs
}

// Total returns lecture + tutorial + 0.5 * practical.
func (c CreditStructure) Total() float64 {
	return c.Lecture + c.Tutorial + 0.5*c.Practical
}

// String returns Raw, or a formatted triple when Raw is empty.
func (c CreditStructure) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	return fmt.Sprintf("%.1f-%.1f-%.1f", c.Lecture, c.Tutorial, c.Practical)
}

// MarshalJSON implements json.Marshaler.
func (c CreditStructure) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CreditStructure) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = CreditStructure{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("creditStructure must be a string: %w", err)
	}
	*c = ParseCreditStructure(raw)
	return nil
}
