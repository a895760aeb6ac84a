package xmlwriter

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itxprashant/IITD-timetable-generator/internal/schedule"
	"github.com/itxprashant/IITD-timetable-generator/internal/types"
)

func records() []types.CourseRecord {
	hall := "LH 108"
	return []types.CourseRecord{
		{
			CourseCode:      "COL106",
			CourseName:      "DATA STRUCTURES & ALGORITHMS",
			SemesterCode:    "2502",
			TotalCredits:    4,
			CreditStructure: types.ParseCreditStructure("3.0-0.0-2.0"),
			Instructor:      "Dr. B. Roy",
			CurrentStrength: "35",
			Slot: types.Slot{
				Name:             "B",
				LectureTiming:    schedule.Encode("TF 8:00-9:30"),
				LectureTimingStr: "TF 8:00-9:30",
			},
			LectureHall: &hall,
		},
		{
			CourseCode:      "HUL899",
			CourseName:      "INDEPENDENT <STUDY>",
			SemesterCode:    "2502",
			CreditStructure: types.ParseCreditStructure("0-0-0"),
			Instructor:      "N/A",
			CurrentStrength: "N/A",
			Slot:            types.Slot{Name: "X"},
		},
	}
}

type parsedCatalog struct {
	XMLName  xml.Name `xml:"catalog"`
	Semester string   `xml:"semester,attr"`
	Count    int      `xml:"count,attr"`
	Courses  []struct {
		N           int     `xml:"n,attr"`
		Code        string  `xml:"courseCode"`
		Name        string  `xml:"courseName"`
		Credits     string  `xml:"totalCredits"`
		LectureHall *string `xml:"lectureHall"`
		Slot        struct {
			Name     string `xml:"name,attr"`
			Meetings []struct {
				Code  string `xml:"code,attr"`
				Day   string `xml:"day,attr"`
				Start string `xml:"start,attr"`
				End   string `xml:"end,attr"`
			} `xml:"lectureTiming>meeting"`
		} `xml:"slot"`
	} `xml:"course"`
}

func TestGenerate(t *testing.T) {
	out, err := Generate(records())
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, xml.Header+`<catalog semester="2502" count="2">`))
	assert.Contains(t, text, `    <creditStructure lecture="3" tutorial="0" practical="2">3.0-0.0-2.0</creditStructure>`)
	assert.Contains(t, text, `        <meeting code="208000930" day="T" start="0800" end="0930"/>`)
	assert.Contains(t, text, `      <tutorialTiming/>`)
	assert.Contains(t, text, `INDEPENDENT &lt;STUDY&gt;`)

	var doc parsedCatalog
	require.NoError(t, xml.Unmarshal(out, &doc))

	assert.Equal(t, "2502", doc.Semester)
	assert.Equal(t, 2, doc.Count)
	require.Len(t, doc.Courses, 2)

	first := doc.Courses[0]
	assert.Equal(t, 1, first.N)
	assert.Equal(t, "DATA STRUCTURES & ALGORITHMS", first.Name)
	assert.Equal(t, "4", first.Credits)
	require.NotNil(t, first.LectureHall)
	assert.Equal(t, "LH 108", *first.LectureHall)
	require.Len(t, first.Slot.Meetings, 2)
	assert.Equal(t, "F", first.Slot.Meetings[1].Day)

	second := doc.Courses[1]
	assert.Equal(t, 2, second.N)
	assert.Nil(t, second.LectureHall)
	assert.Empty(t, second.Slot.Meetings)
}

func TestGenerateWithOptions(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.IncludeXMLDeclaration = false
	opts.RootElement = "courses"
	opts.IndexAttribute = ""
	opts.RootAttributes = map[string]string{"source": "export", "generator": "timetable"}

	out, err := GenerateWithOptions(nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "<courses count=\"0\" generator=\"timetable\" source=\"export\"/>\n", string(out))

	opts.CourseElement = "1course"
	_, err = GenerateWithOptions(nil, opts)
	assert.Error(t, err)
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp; b &quot;c&quot; &apos;d&apos;", escapeXML(`a & b "c" 'd'`))
	assert.Equal(t, "tab\tok", escapeXML("tab\tok\x01"))
}

func TestGenerateXSD(t *testing.T) {
	out, err := GenerateXSD(DefaultGenerateOptions())
	require.NoError(t, err)

	var root struct {
		XMLName xml.Name
	}
	require.NoError(t, xml.Unmarshal(out, &root))
	assert.Equal(t, "schema", root.XMLName.Local)
	assert.Contains(t, string(out), `<xs:element name="course">`)
	assert.Contains(t, string(out), `<xs:attribute name="n" type="xs:positiveInteger" use="required"/>`)
}
