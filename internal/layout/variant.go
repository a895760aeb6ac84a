package layout

// Variant names a known arrangement of the timing columns.
type Variant int

const (
	// VariantUnrecognized leaves every timing column unresolved.
	VariantUnrecognized Variant = iota

	// VariantAnchored reads timings relative to the instructor email column.
	VariantAnchored

	// VariantStandard is the 16 column export without an email anchor.
	VariantStandard

	// VariantCompressed is the 12 column export without an email anchor.
	VariantCompressed
)

// String returns the variant name used in logs and stats.
func (v Variant) String() string {
	switch v {
	case VariantAnchored:
		return "anchored"
	case VariantStandard:
		return "standard"
	case VariantCompressed:
		return "compressed"
	default:
		return "unrecognized"
	}
}

// fixedOffsets is the strict timing mapping of a positional variant.
// minLen is the row length the lecture column needs; tutorial and practical
// are only read when the row reaches them.
type fixedOffsets struct {
	creditIndex int
	minLen      int
	lecture     int
	tutorial    int
	practical   int
}

var (
	standardOffsets   = fixedOffsets{creditIndex: 5, minLen: 14, lecture: 10, tutorial: 11, practical: 13}
	compressedOffsets = fixedOffsets{creditIndex: 4, minLen: 9, lecture: 8, tutorial: 9, practical: 10}
)

// Detect picks the variant for a row from where its anchors landed.
func Detect(row []string, creditIndex, contactIndex int) Variant {
	if contactIndex != NotFound {
		return VariantAnchored
	}
	switch {
	case creditIndex == standardOffsets.creditIndex && len(row) >= standardOffsets.minLen:
		return VariantStandard
	case creditIndex == compressedOffsets.creditIndex && len(row) >= compressedOffsets.minLen:
		return VariantCompressed
	}
	return VariantUnrecognized
}

// Timing extracts the lecture, tutorial and practical columns for the variant.
func (v Variant) Timing(row []string, contactIndex int) Timing {
	switch v {
	case VariantAnchored:
		return anchoredTiming(row, contactIndex)
	case VariantStandard:
		return standardOffsets.timing(row)
	case VariantCompressed:
		return compressedOffsets.timing(row)
	}
	return Timing{Lecture: unresolved, Tutorial: unresolved, Practical: unresolved}
}

func (o fixedOffsets) timing(row []string) Timing {
	return Timing{
		Lecture:   at(row, o.lecture),
		Tutorial:  at(row, o.tutorial),
		Practical: at(row, o.practical),
	}
}

// anchoredTiming reads the block between the email column and the
// second-to-last cell (the vacancy column).
//
//	[L, T, P]             3 cells: practical is the third cell
//	[L, T, sep, P, ...]   4+ cells: the third cell is a separator
//	[L, T]                2 cells: practical stays unresolved
func anchoredTiming(row []string, contactIndex int) Timing {
	t := Timing{Lecture: unresolved, Tutorial: unresolved, Practical: unresolved}

	first := contactIndex + 1
	vacancy := len(row) - 2
	if vacancy <= first {
		return t
	}
	size := vacancy - first

	t.Lecture = at(row, first)
	if size >= 2 {
		t.Tutorial = at(row, first+1)
	}
	switch {
	case size == 3:
		t.Practical = at(row, first+2)
	case size >= 4:
		t.Practical = at(row, first+3)
	}
	return t
}
