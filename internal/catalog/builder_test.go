package catalog

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itxprashant/IITD-timetable-generator/internal/catalogio"
	"github.com/itxprashant/IITD-timetable-generator/internal/schedule"
	"github.com/itxprashant/IITD-timetable-generator/internal/types"
)

var exportRows = [][]string{
	{"Courses Offered - Semester II 2025-26"},
	{"S.No", "Course", "Dept", "Slot", "Type", "L-T-P", "Cat", "Lang", "Instructor", "Email", "Lecture", "Tutorial", "", "Practical", "", "Vacancy", "Strength"},
	{"1", "MINOR PROJECT-AMD5050", "AM", "A", "PG", "3.0-0.0-2.0", "Core", "EN", "Dr. A. Smith", "smith@am.iitd.ac.in", "MTh 09:30-11:00", "T 10:00-11:00", "|", "F 14:00-16:00", "|", "5", "20"},
	{"2", "DATA STRUCTURES-COL106", "CS", "B", "3-0-2", "UG", "Dr. B. Roy", "roy@cse.iitd.ac.in", "TF 8:00-9:30", "W 11:00-12:00", "M 14:00-16:00", "40", "35"},
	{"", "", ""},
	{"3", "-", "XX", "C", "1-0-0", "x", "y", "z"},
	{"4", "INDEPENDENT STUDY-HUL899", "HU", "Open Elective", "PG", "0-0-0", "x", "Dr. H", "h@hss.iitd.ac.in", "TBA", "", "", "0", "3"},
}

func TestBuild(t *testing.T) {
	records, stats := NewBuilder().Build(exportRows)

	require.Len(t, records, 3)
	assert.Equal(t, 7, stats.RowsSeen)
	assert.Equal(t, 3, stats.NotDataRows)
	assert.Equal(t, 1, stats.MissingCode)
	assert.Equal(t, 3, stats.RecordsBuilt)
	assert.Equal(t, 1, stats.NullSchedule)
	assert.Equal(t, 3, stats.ByVariant["anchored"])

	codes := []string{records[0].CourseCode, records[1].CourseCode, records[2].CourseCode}
	assert.Equal(t, []string{"AMD5050", "COL106", "HUL899"}, codes)
}

func TestBuildRecord(t *testing.T) {
	rec, ok := NewBuilder(WithSemesterCode("2601")).BuildRecord(exportRows[2])
	require.True(t, ok)

	want := types.CourseRecord{
		CourseCode:      "AMD5050",
		CourseName:      "MINOR PROJECT",
		SemesterCode:    "2601",
		TotalCredits:    4.0,
		CreditStructure: types.ParseCreditStructure("3.0-0.0-2.0"),
		Instructor:      "Dr. A. Smith",
		CurrentStrength: "20",
		Slot: types.Slot{
			Name:             "A",
			LectureTiming:    schedule.Encode("MTh 09:30-11:00"),
			LectureTimingStr: "MTh 09:30-11:00",
		},
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("BuildRecord mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "109301100,409301100", rec.Slot.LectureTiming.String())
	assert.Nil(t, rec.LectureHall)
}

func TestBuildRecord_Defaults(t *testing.T) {
	rec, ok := NewBuilder().BuildRecord([]string{"9", "WORKSHOP-MEL110", "ME", "", "x"})
	require.True(t, ok)

	assert.Equal(t, DefaultSemesterCode, rec.SemesterCode)
	assert.Equal(t, "X", rec.Slot.Name)
	assert.Equal(t, "N/A", rec.Instructor)
	assert.Equal(t, "x", rec.CurrentStrength)
	assert.Equal(t, 0.0, rec.TotalCredits)
	assert.Equal(t, "0-0-0", rec.CreditStructure.String())
	assert.True(t, rec.Slot.LectureTiming.IsNull())
	assert.Equal(t, "", rec.Slot.LectureTimingStr)
}

func TestBuildRecord_RejectsNonDataRows(t *testing.T) {
	b := NewBuilder()

	_, ok := b.BuildRecord([]string{"S.No", "Course-ABC101"})
	assert.False(t, ok)

	_, ok = b.BuildRecord([]string{"12"})
	assert.False(t, ok, "no name column means no course code")
}

func TestBuild_Rebuild(t *testing.T) {
	first, _ := NewBuilder().Build(exportRows)
	second, _ := NewBuilder().Build(exportRows)
	assert.Equal(t, first, second)
}

func TestBuild_NonFiniteCredits(t *testing.T) {
	rows := [][]string{
		{"1", "DATA STRUCTURES-COL106", "CS", "B", "UG", "NaN-0-0", "Core", "EN", "Dr. B. Roy", "roy@cse.iitd.ac.in", "TF 8:00-9:30", "", "|", "", "|", "40", "35"},
		{"2", "DISCRETE MATHS-COL107", "CS", "C", "UG", "inf-0-0", "Core", "EN", "Dr. D. Sen", "sen@cse.iitd.ac.in", "MTh 09:30-11:00", "", "|", "", "|", "40", "35"},
	}

	records, stats := NewBuilder().Build(rows)
	require.Equal(t, 2, stats.RecordsBuilt)
	for _, rec := range records {
		assert.Equal(t, 0.0, rec.TotalCredits, rec.CourseCode)
	}
	assert.Equal(t, "NaN-0-0", records[0].CreditStructure.String())

	var buf bytes.Buffer
	require.NoError(t, catalogio.Encode(&buf, records))
	assert.Contains(t, buf.String(), `"totalCredits": 0`)
}
