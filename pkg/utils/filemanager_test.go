package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "courses.json")

	require.NoError(t, WriteFileAtomic(path, []byte("[]\n"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("[1]\n"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[1]\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "courses.json")

	t.Run("disabled", func(t *testing.T) {
		got, err := NewFileManager("").BackupFile(src)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("nothing to back up", func(t *testing.T) {
		got, err := NewFileManager(filepath.Join(dir, "backups")).BackupFile(src)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	require.NoError(t, os.WriteFile(src, []byte("old"), 0o644))

	t.Run("copies", func(t *testing.T) {
		fm := NewFileManager(filepath.Join(dir, "backups"))
		fm.UseTimestampSubdirs = true
		fm.now = func() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) }

		got, err := fm.BackupFile(src)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "backups", "2025", "01", "15"), filepath.Dir(got))
		assert.Regexp(t, regexp.MustCompile(`^courses_\d{8}_\d{6}_[0-9a-f]{8}\.json$`), filepath.Base(got))

		data, err := os.ReadFile(got)
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))
	})
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("courses_{semester}_{date}", ".json", map[string]string{"semester": "2502"})
	assert.Regexp(t, `^courses_2502_\d{8}\.json$`, name)

	assert.Equal(t, "chart.PDF", GenerateOutputFileName("chart.PDF", ".pdf", nil))
	assert.Regexp(t, `^[0-9a-f-]{36}$`, GenerateOutputFileName("{uuid}", "", nil))
}

func TestFormatSummary(t *testing.T) {
	start := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, FormatSummary(&buf, RunSummary{
		RunID:        "0d9c3a7e-1111-2222-3333-444455556666",
		Command:      "run",
		StartTime:    start,
		EndTime:      start.Add(2 * time.Second),
		CoursesFile:  "Courses_Offered.csv",
		CatalogFile:  "courses.json",
		RowsSeen:     10,
		RowsSkipped:  2,
		RecordsBuilt: 8,
		ChartSkipped: "room chart unavailable",
		Exports:      []string{"courses.csv"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Duration:       2s")
	assert.Contains(t, out, "Records Built:  8")
	assert.Contains(t, out, "Skipped:        room chart unavailable")
	assert.Contains(t, out, "Export:         courses.csv")
	assert.True(t, strings.HasSuffix(out, "End of Summary\n"))
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSummaryLog(RunSummary{RunID: "abcdef0123456789", Command: "build"}, dir)
	require.NoError(t, err)
	assert.Regexp(t, `run_summary_\d{8}_\d{6}_abcdef01\.txt$`, path)
	assert.FileExists(t, path)
}
