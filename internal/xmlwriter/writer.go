// =============================================================================
// Timetable - XML Writer Module
// =============================================================================
//
// This module renders the course catalogue as XML for consumers that cannot
// read the JSON artifact. The document mirrors the JSON record shape:
//
//   <catalog semester="2502" count="2">
//     <course n="1">
//       <courseCode>COL106</courseCode>
//       <courseName>DATA STRUCTURES</courseName>
//       <totalCredits>4</totalCredits>
//       <creditStructure lecture="3" tutorial="0" practical="2">3.0-0.0-2.0</creditStructure>
//       <instructor>Dr. B. Roy</instructor>
//       <currentStrength>35</currentStrength>
//       <slot name="B">
//         <lectureTimingStr>TF 8:00-9:30</lectureTimingStr>
//         <lectureTiming>
//           <meeting code="208000930" day="T" start="0800" end="0930"/>
//           <meeting code="508000930" day="F" start="0800" end="0930"/>
//         </lectureTiming>
//       </slot>
//       <lectureHall>LH 108</lectureHall>    <!-- omitted while unset -->
//     </course>
//   </catalog>
//
// Null timings are written as empty elements so that the element set is the
// same for every course.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"

	"github.com/itxprashant/IITD-timetable-generator/internal/schedule"
	"github.com/itxprashant/IITD-timetable-generator/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// RootElement is the document element name.
	// Default: "catalog"
	RootElement string

	// CourseElement is the element name of one record.
	// Default: "course"
	CourseElement string

	// IndexAttribute numbers courses from 1. Empty disables numbering.
	// Default: "n"
	IndexAttribute string

	// RootAttributes are additional attributes for the root element,
	// written in key order.
	RootAttributes map[string]string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootElement:           "catalog",
		CourseElement:         "course",
		IndexAttribute:        "n",
		RootAttributes:        make(map[string]string),
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate renders records with the default options.
func Generate(records []types.CourseRecord) ([]byte, error) {
	return GenerateWithOptions(records, DefaultGenerateOptions())
}

// GenerateWithOptions renders records as an XML document.
//
// PARAMETERS:
//   - records: The catalogue, in output order.
//   - options: Element names and formatting.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if an element name is not a valid XML name.
func GenerateWithOptions(records []types.CourseRecord, options GenerateOptions) ([]byte, error) {
	for _, name := range []string{options.RootElement, options.CourseElement} {
		if !isXMLName(name) {
			return nil, fmt.Errorf("invalid element name %q", name)
		}
	}

	var buffer bytes.Buffer
	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	root := XMLElement{XMLName: xml.Name{Local: options.RootElement}}
	if len(records) > 0 && records[0].SemesterCode != "" {
		root.Attributes = append(root.Attributes, attr("semester", records[0].SemesterCode))
	}
	root.Attributes = append(root.Attributes, attr("count", strconv.Itoa(len(records))))

	keys := make([]string, 0, len(options.RootAttributes))
	for key := range options.RootAttributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		root.Attributes = append(root.Attributes, attr(key, options.RootAttributes[key]))
	}

	for i := range records {
		root.Children = append(root.Children, buildCourseElement(&records[i], i+1, options))
	}

	writeElement(&buffer, root, options.Indent, 0)
	return buffer.Bytes(), nil
}

// =============================================================================
// ELEMENT TYPES
// =============================================================================

// XMLElement is a generic element: attributes, then either text or children.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

func buildCourseElement(rec *types.CourseRecord, index int, options GenerateOptions) XMLElement {
	element := XMLElement{XMLName: xml.Name{Local: options.CourseElement}}
	if options.IndexAttribute != "" {
		element.Attributes = append(element.Attributes, attr(options.IndexAttribute, strconv.Itoa(index)))
	}

	credits := XMLElement{
		XMLName: xml.Name{Local: "creditStructure"},
		Attributes: []xml.Attr{
			attr("lecture", formatFloat(rec.CreditStructure.Lecture)),
			attr("tutorial", formatFloat(rec.CreditStructure.Tutorial)),
			attr("practical", formatFloat(rec.CreditStructure.Practical)),
		},
		Value: rec.CreditStructure.String(),
	}

	element.Children = append(element.Children,
		createSimpleElement("courseCode", rec.CourseCode),
		createSimpleElement("courseName", rec.CourseName),
		createSimpleElement("totalCredits", formatFloat(rec.TotalCredits)),
		credits,
		createSimpleElement("instructor", rec.Instructor),
		createSimpleElement("currentStrength", rec.CurrentStrength),
		buildSlotElement(rec.Slot),
	)

	if rec.LectureHall != nil {
		element.Children = append(element.Children, createSimpleElement("lectureHall", *rec.LectureHall))
	}
	return element
}

func buildSlotElement(slot types.Slot) XMLElement {
	return XMLElement{
		XMLName:    xml.Name{Local: "slot"},
		Attributes: []xml.Attr{attr("name", slot.Name)},
		Children: []XMLElement{
			createSimpleElement("lectureTimingStr", slot.LectureTimingStr),
			buildScheduleElement("lectureTiming", slot.LectureTiming),
			buildScheduleElement("tutorialTiming", slot.TutorialTiming),
			buildScheduleElement("labTiming", slot.LabTiming),
		},
	}
}

func buildScheduleElement(name string, s schedule.Schedule) XMLElement {
	element := XMLElement{XMLName: xml.Name{Local: name}}
	for _, tok := range s {
		element.Children = append(element.Children, XMLElement{
			XMLName: xml.Name{Local: "meeting"},
			Attributes: []xml.Attr{
				attr("code", tok.String()),
				attr("day", schedule.DayName(tok.Day)),
				attr("start", tok.Start.String()),
				attr("end", tok.End.String()),
			},
		})
	}
	return element
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// writeElement writes an element and its children with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, a := range element.Attributes {
		fmt.Fprintf(buffer, " %s=\"%s\"", a.Name.Local, escapeXML(a.Value))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML text and attribute values.
// Characters not allowed in XML 1.0 are dropped.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch {
		case r == '&':
			buffer.WriteString("&amp;")
		case r == '<':
			buffer.WriteString("&lt;")
		case r == '>':
			buffer.WriteString("&gt;")
		case r == '"':
			buffer.WriteString("&quot;")
		case r == '\'':
			buffer.WriteString("&apos;")
		case r == '\t' || r == '\n' || r == '\r':
			buffer.WriteRune(r)
		case r < 0x20 || r == 0xFFFE || r == 0xFFFF:
			// not representable in XML 1.0
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// isXMLName reports whether s is a usable element name.
func isXMLName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
		case i > 0 && (r == '-' || r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}
