// Package catalogio reads and writes the course catalogue artifact.
//
// The canonical artifact is a JSON array of course records indented with two
// spaces. A flat CSV export is also available for spreadsheet users.
package catalogio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/itxprashant/IITD-timetable-generator/internal/types"
	"github.com/itxprashant/IITD-timetable-generator/pkg/utils"
)

// Encode writes records as an indented JSON array followed by a newline.
func Encode(w io.Writer, records []types.CourseRecord) error {
	if records == nil {
		records = []types.CourseRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode catalogue: %w", err)
	}
	return nil
}

// Decode reads a JSON array of records.
func Decode(r io.Reader) ([]types.CourseRecord, error) {
	var records []types.CourseRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue: %w", err)
	}
	return records, nil
}

// ReadFile loads the catalogue at path.
func ReadFile(path string) ([]types.CourseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// WriteFile replaces the catalogue at path. The previous file stays intact
// if encoding or writing fails.
func WriteFile(path string, records []types.CourseRecord) error {
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		return err
	}
	return utils.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// =============================================================================
// CSV EXPORT
// =============================================================================

// csvRow is the flat shape of a record in the CSV export.
type csvRow struct {
	CourseCode       string `csv:"courseCode"`
	CourseName       string `csv:"courseName"`
	SemesterCode     string `csv:"semesterCode"`
	TotalCredits     string `csv:"totalCredits"`
	CreditStructure  string `csv:"creditStructure"`
	Instructor       string `csv:"instructor"`
	CurrentStrength  string `csv:"currentStrength"`
	Slot             string `csv:"slot"`
	LectureTiming    string `csv:"lectureTiming"`
	LectureTimingStr string `csv:"lectureTimingStr"`
	LectureHall      string `csv:"lectureHall"`
}

func toCSVRows(records []types.CourseRecord) []*csvRow {
	rows := make([]*csvRow, 0, len(records))
	for i := range records {
		rec := &records[i]
		rows = append(rows, &csvRow{
			CourseCode:       rec.CourseCode,
			CourseName:       rec.CourseName,
			SemesterCode:     rec.SemesterCode,
			TotalCredits:     strconv.FormatFloat(rec.TotalCredits, 'f', -1, 64),
			CreditStructure:  rec.CreditStructure.String(),
			Instructor:       rec.Instructor,
			CurrentStrength:  rec.CurrentStrength,
			Slot:             rec.Slot.Name,
			LectureTiming:    rec.Slot.LectureTiming.String(),
			LectureTimingStr: rec.Slot.LectureTimingStr,
			LectureHall:      rec.Venue(),
		})
	}
	return rows
}

// ExportCSV writes one CSV line per record, with a header row. Null values
// are written as empty cells.
func ExportCSV(w io.Writer, records []types.CourseRecord) error {
	rows := toCSVRows(records)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write CSV export: %w", err)
	}
	return nil
}

// ExportCSVFile writes the CSV export to path.
func ExportCSVFile(path string, records []types.CourseRecord) error {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, records); err != nil {
		return err
	}
	return utils.WriteFileAtomic(path, buf.Bytes(), 0o644)
}
