package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itxprashant/IITD-timetable-generator/internal/catalogio"
)

const exportCSV = `S.No,Course,Dept,Slot,Type,L-T-P,Cat,Lang,Instructor,Email,Lecture,Tutorial,,Practical,,Vacancy,Strength
1,DATA STRUCTURES-COL106,CS,B,UG,3-0-2,Core,EN,Dr. B. Roy,roy@cse.iitd.ac.in,TF 8:00-9:30,W 11:00-12:00,|,M 14:00-16:00,|,40,35
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+Version)
}

func TestXSD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xsd")
	_, err := execute(t, "xsd", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<xs:element name="course">`)
}

func TestBuildAndValidate(t *testing.T) {
	dir := t.TempDir()
	courses := filepath.Join(dir, "Courses_Offered.csv")
	catalog := filepath.Join(dir, "courses.json")
	require.NoError(t, os.WriteFile(courses, []byte(exportCSV), 0o644))

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: error\nroom_chart_file: "+filepath.Join(dir, "none.pdf")+"\n"), 0o644))

	out, err := execute(t, "build", "--config", configPath, "--courses", courses, "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "Records Built:  1")

	records, err := catalogio.ReadFile(catalog)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "COL106", records[0].CourseCode)

	out, err = execute(t, "validate", "--config", configPath, "--catalog", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "No validation errors.")
}

func TestMissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
