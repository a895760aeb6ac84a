package venue

import (
	"github.com/itxprashant/IITD-timetable-generator/internal/types"
)

// Merge returns a copy of records with lectureHall set from assoc, and the
// number of records whose venue changed. A record with no mapping keeps its
// existing venue; it is never cleared.
func Merge(records []types.CourseRecord, assoc Association) ([]types.CourseRecord, int) {
	out := make([]types.CourseRecord, len(records))
	copy(out, records)

	changed := 0
	for i := range out {
		rec := &out[i]
		if rec.CourseCode == "" {
			continue
		}
		venue := assoc.Format(rec.CourseCode)
		if venue == "" {
			continue
		}
		if rec.LectureHall != nil && *rec.LectureHall == venue {
			continue
		}
		rec.LectureHall = &venue
		changed++
	}
	return out, changed
}
