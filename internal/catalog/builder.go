// Package catalog turns raw export rows into normalized course records.
//
// The builder is pure composition: the layout package finds the columns, the
// schedule package encodes the lecture timing, and this package assembles the
// record and decides which rows are dropped.
package catalog

import (
	"go.uber.org/zap"

	"github.com/itxprashant/IITD-timetable-generator/internal/layout"
	"github.com/itxprashant/IITD-timetable-generator/internal/schedule"
	"github.com/itxprashant/IITD-timetable-generator/internal/types"
)

// DefaultSemesterCode is stamped on records when no semester is configured.
const DefaultSemesterCode = "2502"

// Builder assembles CourseRecords from raw rows.
type Builder struct {
	semesterCode string
	logger       *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithSemesterCode sets the semester stamped on every record.
func WithSemesterCode(code string) Option {
	return func(b *Builder) {
		if code != "" {
			b.semesterCode = code
		}
	}
}

// WithLogger sets the logger used for row-level debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder returns a Builder with the given options applied.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		semesterCode: DefaultSemesterCode,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Stats counts what happened to the rows of one Build call.
type Stats struct {
	RowsSeen     int
	NotDataRows  int
	MissingCode  int
	RecordsBuilt int
	NullSchedule int

	// ByVariant counts built records per layout variant name.
	ByVariant map[string]int
}

// BuildRecord builds the record for one row. ok is false when the row is not
// a data row or yields no course code; such rows are dropped, never emitted
// with a placeholder code.
func (b *Builder) BuildRecord(row []string) (types.CourseRecord, bool) {
	rec, _, ok := b.build(row)
	return rec, ok
}

// Build runs BuildRecord over every row, keeping input order.
func (b *Builder) Build(rows [][]string) ([]types.CourseRecord, Stats) {
	stats := Stats{ByVariant: make(map[string]int)}
	records := make([]types.CourseRecord, 0, len(rows))

	for i, row := range rows {
		stats.RowsSeen++

		if !layout.IsDataRow(row) {
			stats.NotDataRows++
			continue
		}

		rec, cols, ok := b.build(row)
		if !ok {
			stats.MissingCode++
			b.logger.Debug("dropping row without course code", zap.Int("row", i+1))
			continue
		}

		if rec.Slot.LectureTiming.IsNull() {
			stats.NullSchedule++
		}
		stats.ByVariant[cols.Variant.String()]++
		stats.RecordsBuilt++
		records = append(records, rec)
	}

	return records, stats
}

func (b *Builder) build(row []string) (types.CourseRecord, layout.Columns, bool) {
	if !layout.IsDataRow(row) {
		return types.CourseRecord{}, layout.Columns{}, false
	}

	cols := layout.Locate(row)
	if cols.Code == "" {
		return types.CourseRecord{}, cols, false
	}

	credits := types.ParseCreditStructure(cols.Credit.Value)
	slotName := cols.Slot
	if slotName == "" {
		slotName = layout.DefaultSlot
	}

	lecture := cols.Timing.Lecture.Value

	return types.CourseRecord{
		CourseCode:      cols.Code,
		CourseName:      cols.Name,
		SemesterCode:    b.semesterCode,
		TotalCredits:    credits.Total(),
		CreditStructure: credits,
		Instructor:      cols.Instructor,
		CurrentStrength: cols.Strength,
		Slot: types.Slot{
			Name:             slotName,
			LectureTiming:    schedule.Encode(lecture),
			LectureTimingStr: lecture,
		},
	}, cols, true
}
