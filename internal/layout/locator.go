// =============================================================================
// Timetable - Column Locator
// =============================================================================
//
// The course export has no reliable header and its column count drifts from
// row to row. Two shapes have been observed:
//
//   STANDARD (16 columns):
//     0 S.No | 1 Name-CODE | 2 .. | 3 Slot | 4 .. | 5 L-T-P | .. | 8 Instructor |
//     9 email | 10 Lecture | 11 Tutorial | 12 sep | 13 Practical | 14 sep |
//     15 Strength
//
//   COMPRESSED (12 columns):
//     0 S.No | 1 Name-CODE | 2 .. | 3 Slot | 4 L-T-P | .. | 6 Instructor |
//     7 email | 8 Lecture | 9 Tutorial | 10 Practical | 11 Strength
//
// Rather than trusting fixed offsets, the locator anchors on cells whose
// content has a recognizable shape (the L-T-P credit triple and the "@" of
// the instructor's email) and only falls back to fixed offsets when an anchor
// is missing. Each stage tolerates the failure of the previous one; Locate
// never fails a row.
//
// =============================================================================

package layout

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// NotFound marks a column that could not be resolved.
	NotFound = -1

	// DefaultCreditIndex is used when no cell looks like an L-T-P triple.
	DefaultCreditIndex = 5

	// SlotIndex is the preferred position of the slot label.
	SlotIndex = 3

	// NameIndex holds the combined "NAME-CODE" text.
	NameIndex = 1

	// DefaultSlot is used when no slot label can be found.
	DefaultSlot = "X"

	// Unknown is the placeholder for unresolved instructor/strength text.
	Unknown = "N/A"

	// maxSlotLength is the longest text accepted as a slot label ("A", "AA").
	maxSlotLength = 2
)

var creditPattern = regexp.MustCompile(`^\d+(\.\d+)?-\d+(\.\d+)?-\d+(\.\d+)?$`)

// =============================================================================
// RESULT TYPES
// =============================================================================

// Cell is a located column: its index in the row and its trimmed text.
// Index is NotFound when the column is unresolved, which is distinct from a
// column that was found but is blank.
type Cell struct {
	Index int
	Value string
}

// Resolved reports whether the cell was located in the row.
func (c Cell) Resolved() bool {
	return c.Index != NotFound
}

var unresolved = Cell{Index: NotFound}

// Timing holds the three schedule substring columns.
type Timing struct {
	Lecture   Cell
	Tutorial  Cell
	Practical Cell
}

// Columns is everything the locator could find in one row.
type Columns struct {
	// Variant is the layout the timing columns were read with.
	Variant Variant

	// Credit is the L-T-P column. Value is "0-0-0" when unresolved.
	Credit Cell

	// Contact is the first cell containing "@" after the credit column.
	Contact Cell

	Timing Timing

	// Slot is the slot label; DefaultSlot when nothing qualified.
	Slot string

	// Code and Name come from splitting the name column on its last hyphen.
	Code string
	Name string

	// Instructor is the cell before the contact column, or Unknown.
	Instructor string

	// Strength is the last cell of the row.
	Strength string
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// IsDataRow reports whether the row starts with a positive serial number.
// Header, title and blank rows of the export all fail this check.
func IsDataRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	serial := strings.TrimSpace(row[0])
	if serial == "" {
		return false
	}
	for _, r := range serial {
		if r < '0' || r > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(serial)
	return err == nil && n > 0
}

// Locate resolves every field of a data row. Callers are expected to have
// checked IsDataRow first; Locate itself does not reject rows.
func Locate(row []string) Columns {
	cols := Columns{
		Slot:       DefaultSlot,
		Instructor: Unknown,
		Strength:   Unknown,
	}

	cols.Credit = locateCredit(row)
	cols.Contact = locateContact(row, cols.Credit)

	cols.Variant = Detect(row, cols.Credit.Index, cols.Contact.Index)
	cols.Timing = cols.Variant.Timing(row, cols.Contact.Index)

	if slot, ok := locateSlot(row, cols.Credit.Index); ok {
		cols.Slot = slot
	}

	cols.Code, cols.Name = SplitCourseName(cell(row, NameIndex))

	if cols.Contact.Index > 0 {
		cols.Instructor = strings.TrimSpace(row[cols.Contact.Index-1])
	}
	if len(row) > 0 {
		cols.Strength = strings.TrimSpace(row[len(row)-1])
	}

	return cols
}

// SplitCourseName splits "MAJOR PROJECT PART-II-AMD812" into the code after
// the last hyphen ("AMD812") and the name before it. Without a hyphen the
// whole trimmed text is both code and name.
func SplitCourseName(combined string) (code, name string) {
	combined = strings.TrimSpace(combined)
	if combined == "" {
		return "", ""
	}
	i := strings.LastIndex(combined, "-")
	if i < 0 {
		return combined, combined
	}
	return strings.TrimSpace(combined[i+1:]), strings.TrimSpace(combined[:i])
}

// =============================================================================
// FIELD LOCATORS
// =============================================================================

// locateCredit finds the first L-T-P shaped cell, falling back to the
// standard layout's fixed position.
func locateCredit(row []string) Cell {
	for i, c := range row {
		if creditPattern.MatchString(strings.TrimSpace(c)) {
			return Cell{Index: i, Value: strings.TrimSpace(c)}
		}
	}
	if len(row) > DefaultCreditIndex {
		return Cell{Index: DefaultCreditIndex, Value: strings.TrimSpace(row[DefaultCreditIndex])}
	}
	return Cell{Index: NotFound, Value: "0-0-0"}
}

// locateContact finds the first cell containing "@" strictly after the
// credit column.
func locateContact(row []string, credit Cell) Cell {
	start := 2
	if credit.Resolved() {
		start = credit.Index + 1
	}
	for i := start; i < len(row); i++ {
		if strings.Contains(row[i], "@") {
			return Cell{Index: i, Value: strings.TrimSpace(row[i])}
		}
	}
	return unresolved
}

// locateSlot returns the slot label and whether one was resolved. A blank
// cell at SlotIndex counts as resolved-but-blank, matching the export where
// an empty slot column means "no slot".
func locateSlot(row []string, creditIndex int) (string, bool) {
	if len(row) > SlotIndex {
		candidate := strings.TrimSpace(row[SlotIndex])
		if utf8.RuneCountInString(candidate) <= maxSlotLength {
			if candidate == "" {
				return "", false
			}
			return candidate, true
		}
	}

	if creditIndex == NotFound {
		return "", false
	}
	for _, offset := range []int{1, 2} {
		i := creditIndex - offset
		if i < 0 {
			break
		}
		candidate := strings.TrimSpace(row[i])
		if candidate != "" && utf8.RuneCountInString(candidate) <= maxSlotLength {
			return candidate, true
		}
	}
	return "", false
}

// cell returns the trimmed cell at i, or "" when the row is too short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// at returns a resolved Cell for index i, or unresolved if out of range.
func at(row []string, i int) Cell {
	if i < 0 || i >= len(row) {
		return unresolved
	}
	return Cell{Index: i, Value: strings.TrimSpace(row[i])}
}
