package xmlwriter

import (
	"bytes"
	"fmt"
)

// GenerateXSD returns an XML Schema describing the documents Generate
// produces with the given options.
func GenerateXSD(options GenerateOptions) ([]byte, error) {
	for _, name := range []string{options.RootElement, options.CourseElement} {
		if !isXMLName(name) {
			return nil, fmt.Errorf("invalid element name %q", name)
		}
	}

	var buffer bytes.Buffer

	buffer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
`)

	fmt.Fprintf(&buffer, `  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
        <xs:element ref="%s" minOccurs="0" maxOccurs="unbounded"/>
      </xs:sequence>
      <xs:attribute name="semester" type="xs:string"/>
      <xs:attribute name="count" type="xs:nonNegativeInteger" use="required"/>
      <xs:anyAttribute processContents="skip"/>
    </xs:complexType>
  </xs:element>

`, options.RootElement, options.CourseElement)

	fmt.Fprintf(&buffer, `  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="courseCode" type="xs:string"/>
        <xs:element name="courseName" type="xs:string"/>
        <xs:element name="totalCredits" type="xs:decimal"/>
        <xs:element name="creditStructure" type="creditStructureType"/>
        <xs:element name="instructor" type="xs:string"/>
        <xs:element name="currentStrength" type="xs:string"/>
        <xs:element name="slot" type="slotType"/>
        <xs:element name="lectureHall" type="xs:string" minOccurs="0"/>
      </xs:sequence>
`, options.CourseElement)
	if options.IndexAttribute != "" {
		fmt.Fprintf(&buffer, `      <xs:attribute name="%s" type="xs:positiveInteger" use="required"/>
`, options.IndexAttribute)
	}
	buffer.WriteString(`    </xs:complexType>
  </xs:element>

  <xs:complexType name="creditStructureType">
    <xs:simpleContent>
      <xs:extension base="xs:string">
        <xs:attribute name="lecture" type="xs:decimal"/>
        <xs:attribute name="tutorial" type="xs:decimal"/>
        <xs:attribute name="practical" type="xs:decimal"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>

  <xs:complexType name="slotType">
    <xs:sequence>
      <xs:element name="lectureTimingStr" type="xs:string"/>
      <xs:element name="lectureTiming" type="scheduleType"/>
      <xs:element name="tutorialTiming" type="scheduleType"/>
      <xs:element name="labTiming" type="scheduleType"/>
    </xs:sequence>
    <xs:attribute name="name" type="xs:string" use="required"/>
  </xs:complexType>

  <xs:complexType name="scheduleType">
    <xs:sequence>
      <xs:element name="meeting" minOccurs="0" maxOccurs="unbounded">
        <xs:complexType>
          <xs:attribute name="code" use="required">
            <xs:simpleType>
              <xs:restriction base="xs:string">
                <xs:pattern value="[1-7][0-9]{8}"/>
              </xs:restriction>
            </xs:simpleType>
          </xs:attribute>
          <xs:attribute name="day" type="xs:string" use="required"/>
          <xs:attribute name="start" type="xs:string" use="required"/>
          <xs:attribute name="end" type="xs:string" use="required"/>
        </xs:complexType>
      </xs:element>
    </xs:sequence>
  </xs:complexType>

</xs:schema>
`)

	return buffer.Bytes(), nil
}
