package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itxprashant/IITD-timetable-generator/internal/schedule"
	"github.com/itxprashant/IITD-timetable-generator/internal/types"
)

func goodRecord(code string) types.CourseRecord {
	return types.CourseRecord{
		CourseCode:      code,
		CourseName:      "DATA STRUCTURES",
		SemesterCode:    "2502",
		TotalCredits:    4,
		CreditStructure: types.ParseCreditStructure("3-0-2"),
		Instructor:      "N/A",
		CurrentStrength: "N/A",
		Slot: types.Slot{
			Name:             "B",
			LectureTiming:    schedule.Encode("TF 8:00-9:30"),
			LectureTimingStr: "TF 8:00-9:30",
		},
	}
}

func rules(findings []*ValidationError) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Rule)
	}
	return out
}

func TestValidateAll_Clean(t *testing.T) {
	result := NewValidator().ValidateAll([]types.CourseRecord{goodRecord("COL106"), goodRecord("ELL780P")})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.RecordsValidated)
	assert.Equal(t, "No validation errors.", FormatErrors(result.Errors))
}

func TestValidateAll_Findings(t *testing.T) {
	shapeless := goodRecord("Project")
	shapeless.CourseName = ""

	badCredits := goodRecord("MTL100")
	badCredits.CreditStructure = types.ParseCreditStructure("TBD")
	badCredits.TotalCredits = 0

	unparsed := goodRecord("HUL101")
	unparsed.Slot.LectureTiming = nil
	unparsed.Slot.LectureTimingStr = "As notified"

	backwards := goodRecord("ELL201")
	backwards.Slot.LectureTiming = schedule.Encode("M 11:00-10:00")

	records := []types.CourseRecord{goodRecord("COL106"), shapeless, badCredits, unparsed, backwards, goodRecord("COL106")}
	result := NewValidator().ValidateAll(records)

	assert.True(t, result.IsValid, "warnings only")
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, []string{
		"code_shape", "name_missing",
		"credit_structure",
		"schedule_unparsed",
		"token_range",
		"duplicate_code",
	}, rules(result.Errors))

	dup := result.Errors[len(result.Errors)-1]
	assert.Equal(t, 6, dup.Index)
	assert.Equal(t, "duplicate of course #1", dup.Message)
}

func TestValidateAll_Errors(t *testing.T) {
	missing := goodRecord("")
	mismatch := goodRecord("COL106")
	mismatch.TotalCredits = 5

	result := NewValidator().ValidateAll([]types.CourseRecord{missing, mismatch})

	assert.False(t, result.IsValid)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, []string{"code_missing", "credits_mismatch"}, rules(result.Errors))
	assert.Contains(t, result.Errors[1].Error(), "[ERROR] Course #2 COL106, Field 'totalCredits'")
}

func TestValidatorOptions(t *testing.T) {
	rec := goodRecord("Project")

	v := NewValidatorWithOptions(ValidationOptions{
		TreatWarningsAsErrors: true,
		DisabledRules:         []string{"code_shape"},
		CustomValidators: map[string]CustomValidatorFunc{
			"slot_known": func(rec *types.CourseRecord) string {
				if rec.Slot.Name == "X" {
					return "no slot"
				}
				return ""
			},
		},
	})

	result := v.ValidateAll([]types.CourseRecord{rec})
	assert.True(t, result.IsValid)

	rec.Slot.Name = "X"
	result = v.ValidateAll([]types.CourseRecord{rec})
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"slot_known"}, rules(result.Errors))
}

func TestCustomValidatorOrder(t *testing.T) {
	always := func(msg string) CustomValidatorFunc {
		return func(*types.CourseRecord) string { return msg }
	}
	v := NewValidatorWithOptions(ValidationOptions{
		CustomValidators: map[string]CustomValidatorFunc{
			"venue_known":    always("no venue"),
			"instructor_set": always("no instructor"),
			"strength_known": always("no strength"),
			"dept_prefix":    always("unknown department"),
		},
	})

	for i := 0; i < 20; i++ {
		result := v.ValidateAll([]types.CourseRecord{goodRecord("COL106")})
		require.Equal(t, []string{"dept_prefix", "instructor_set", "strength_known", "venue_known"}, rules(result.Errors))
	}
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "validation.log")

	require.NoError(t, WriteErrorLog(nil, path))
	assert.NoFileExists(t, path)

	findings := Validate([]types.CourseRecord{goodRecord("bad")})
	require.NoError(t, WriteErrorLog(findings, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Timetable - Validation Log\n"))
	assert.Contains(t, string(data), "1. [WARNING] Course #1 bad, Field 'courseCode'")
}
