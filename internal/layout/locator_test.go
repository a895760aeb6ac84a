package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// standardRow is a 17 cell export row whose timing block is
// [lecture, tutorial, separator, practical, separator].
func standardRow() []string {
	return []string{
		"1", "MINOR PROJECT-AMD5050", "AM", "A", "PG", "3.0-0.0-2.0", "Core", "EN",
		"Dr. A. Smith", "smith@am.iitd.ac.in",
		"MTh 09:30-11:00", "T 10:00-11:00", "|", "F 14:00-16:00", "|",
		"5", "20",
	}
}

// compressedRow is a 13 cell row with a 3 cell timing block.
func compressedRow() []string {
	return []string{
		"2", "DATA STRUCTURES-COL106", "CS", "B", "3-0-2", "UG", "Dr. B. Roy", "roy@cse.iitd.ac.in",
		"TF 8:00-9:30", "W 11:00-12:00", "M 14:00-16:00",
		"40", "35",
	}
}

func TestIsDataRow(t *testing.T) {
	tests := []struct {
		row  []string
		want bool
	}{
		{[]string{"1", "x"}, true},
		{[]string{" 12 ", "x"}, true},
		{[]string{"S.No", "Course"}, false},
		{[]string{"0", "x"}, false},
		{[]string{"", "x"}, false},
		{[]string{"1a"}, false},
		{[]string{"-3"}, false},
		{nil, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsDataRow(tc.row), "row %q", tc.row)
	}
}

func TestLocate_FiveCellBlockSkipsSeparator(t *testing.T) {
	cols := Locate(standardRow())

	assert.Equal(t, VariantAnchored, cols.Variant)
	assert.Equal(t, 5, cols.Credit.Index)
	assert.Equal(t, "3.0-0.0-2.0", cols.Credit.Value)
	assert.Equal(t, 9, cols.Contact.Index)

	assert.Equal(t, "MTh 09:30-11:00", cols.Timing.Lecture.Value)
	assert.Equal(t, "T 10:00-11:00", cols.Timing.Tutorial.Value)
	assert.Equal(t, 13, cols.Timing.Practical.Index, "practical comes from the 4th block cell")
	assert.Equal(t, "F 14:00-16:00", cols.Timing.Practical.Value)

	assert.Equal(t, "A", cols.Slot)
	assert.Equal(t, "AMD5050", cols.Code)
	assert.Equal(t, "MINOR PROJECT", cols.Name)
	assert.Equal(t, "Dr. A. Smith", cols.Instructor)
	assert.Equal(t, "20", cols.Strength)
}

func TestLocate_ThreeCellBlock(t *testing.T) {
	cols := Locate(compressedRow())

	assert.Equal(t, VariantAnchored, cols.Variant)
	assert.Equal(t, 4, cols.Credit.Index)
	assert.Equal(t, 7, cols.Contact.Index)
	assert.Equal(t, "TF 8:00-9:30", cols.Timing.Lecture.Value)
	assert.Equal(t, "W 11:00-12:00", cols.Timing.Tutorial.Value)
	assert.Equal(t, 10, cols.Timing.Practical.Index, "practical comes from the 3rd block cell")
	assert.Equal(t, "M 14:00-16:00", cols.Timing.Practical.Value)
	assert.Equal(t, "Dr. B. Roy", cols.Instructor)
	assert.Equal(t, "35", cols.Strength)
}

func TestLocate_TwoCellBlockLeavesPracticalUnresolved(t *testing.T) {
	row := []string{
		"3", "THESIS-ELL899", "EE", "C", "0-0-8", "x", "Dr. C", "c@ee.iitd.ac.in",
		"W 8:00-9:00", "", "0", "1",
	}
	cols := Locate(row)

	assert.True(t, cols.Timing.Lecture.Resolved())
	assert.True(t, cols.Timing.Tutorial.Resolved())
	assert.Equal(t, "", cols.Timing.Tutorial.Value)
	assert.False(t, cols.Timing.Practical.Resolved())
}

func TestLocate_EmptyBlock(t *testing.T) {
	// email sits right before the vacancy column
	row := []string{"4", "SEMINAR-MTL800", "MA", "D", "1-0-0", "Dr. D", "d@maths.iitd.ac.in", "0", "2"}
	cols := Locate(row)

	assert.Equal(t, VariantAnchored, cols.Variant)
	assert.False(t, cols.Timing.Lecture.Resolved())
	assert.False(t, cols.Timing.Tutorial.Resolved())
	assert.False(t, cols.Timing.Practical.Resolved())
}

func TestLocate_PositionalVariants(t *testing.T) {
	t.Run("standard without email", func(t *testing.T) {
		row := standardRow()[:16]
		row[9] = "no email recorded"
		cols := Locate(row)

		require.Equal(t, VariantStandard, cols.Variant)
		assert.False(t, cols.Contact.Resolved())
		assert.Equal(t, "MTh 09:30-11:00", cols.Timing.Lecture.Value)
		assert.Equal(t, "T 10:00-11:00", cols.Timing.Tutorial.Value)
		assert.Equal(t, "F 14:00-16:00", cols.Timing.Practical.Value)
		assert.Equal(t, Unknown, cols.Instructor)
	})

	t.Run("compressed without email", func(t *testing.T) {
		row := []string{"5", "OPTICS-PYL101", "PH", "E", "3-1-0", "UG", "Dr. E", "-", "M 8:00-9:00", "T 9:00-10:00"}
		cols := Locate(row)

		require.Equal(t, VariantCompressed, cols.Variant)
		assert.Equal(t, "M 8:00-9:00", cols.Timing.Lecture.Value)
		assert.Equal(t, "T 9:00-10:00", cols.Timing.Tutorial.Value)
		assert.False(t, cols.Timing.Practical.Resolved(), "row too short for the practical column")
	})

	t.Run("unrecognized", func(t *testing.T) {
		row := []string{"6", "LAB-CML100", "CY", "F", "0-0-4", "x", "y", "z"}
		cols := Locate(row)

		assert.Equal(t, VariantUnrecognized, cols.Variant)
		assert.Equal(t, "", cols.Timing.Lecture.Value)
		assert.False(t, cols.Timing.Lecture.Resolved())
	})
}

func TestLocate_CreditFallback(t *testing.T) {
	t.Run("fixed index when no triple", func(t *testing.T) {
		row := []string{"7", "READING-HUL700", "HU", "G", "x", "TBD", "a", "b"}
		cols := Locate(row)
		assert.Equal(t, DefaultCreditIndex, cols.Credit.Index)
		assert.Equal(t, "TBD", cols.Credit.Value)
	})

	t.Run("absent on short rows", func(t *testing.T) {
		row := []string{"8", "SHORT-ABC100", "x"}
		cols := Locate(row)
		assert.False(t, cols.Credit.Resolved())
		assert.Equal(t, "0-0-0", cols.Credit.Value)
		assert.Equal(t, VariantUnrecognized, cols.Variant)
		assert.Equal(t, "x", cols.Strength)
	})

	t.Run("email before the triple is ignored", func(t *testing.T) {
		row := []string{"9", "X-ABC101", "stray@x", "H", "2-0-0", "Prof", "p@x.in", "M 8:00-9:00", "", "", "0", "1"}
		cols := Locate(row)
		assert.Equal(t, 6, cols.Contact.Index)
		assert.Equal(t, "Prof", cols.Instructor)
	})
}

func TestLocate_Slot(t *testing.T) {
	t.Run("fixed position", func(t *testing.T) {
		assert.Equal(t, "A", Locate(standardRow()).Slot)
	})

	t.Run("one before credit", func(t *testing.T) {
		row := standardRow()
		row[3] = "Programme Core"
		row[4] = "AA"
		assert.Equal(t, "AA", Locate(row).Slot)
	})

	t.Run("two before credit", func(t *testing.T) {
		row := compressedRow()
		row[3] = "Departmental Elective"
		row[2] = "J"
		assert.Equal(t, "J", Locate(row).Slot)
	})

	t.Run("blank slot column", func(t *testing.T) {
		row := standardRow()
		row[3] = "  "
		row[4] = "Q"
		assert.Equal(t, DefaultSlot, Locate(row).Slot)
	})

	t.Run("nothing qualifies", func(t *testing.T) {
		row := standardRow()
		row[3] = "Open Elective"
		row[4] = "Postgraduate"
		assert.Equal(t, DefaultSlot, Locate(row).Slot)
	})
}

func TestSplitCourseName(t *testing.T) {
	tests := []struct {
		in, code, name string
	}{
		{"MINOR PROJECT-AMD5050", "AMD5050", "MINOR PROJECT"},
		{"MAJOR PROJECT PART-II-AMD812", "AMD812", "MAJOR PROJECT PART-II"},
		{"  COL106  ", "COL106", "COL106"},
		{"DATA STRUCTURES - COL106 ", "COL106", "DATA STRUCTURES"},
		{"", "", ""},
		{"TRAILING-", "", "TRAILING"},
	}
	for _, tc := range tests {
		code, name := SplitCourseName(tc.in)
		assert.Equal(t, tc.code, code, tc.in)
		assert.Equal(t, tc.name, name, tc.in)
	}
}
