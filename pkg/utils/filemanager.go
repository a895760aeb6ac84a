// =============================================================================
// Timetable - File Management Utilities
// =============================================================================
//
// This package contains the file handling shared by the commands:
//   - Creating output and backup directories
//   - Replacing artifacts atomically (write to a temp file, then rename)
//   - Backing up the previous catalogue before it is overwritten
//   - Generating file names with {uuid}/{timestamp} placeholders
//   - Writing the human readable run summary
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles backups of artifacts that are about to be replaced.
type FileManager struct {
	// BackupDir receives copies of replaced artifacts. Empty disables backups.
	BackupDir string

	// UseTimestampSubdirs files backups under YYYY/MM/DD subdirectories.
	UseTimestampSubdirs bool

	// now is replaced in tests.
	now func() time.Time
}

// NewFileManager creates a FileManager for the given backup directory.
func NewFileManager(backupDir string) *FileManager {
	return &FileManager{
		BackupDir: backupDir,
		now:       time.Now,
	}
}

// EnsureDirectories creates every non-empty directory in dirs.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// BackupFile copies filePath into the backup directory.
//
// PARAMETERS:
//   - filePath: The artifact about to be replaced.
//
// RETURNS:
//   - The backup path, or "" when backups are disabled or filePath does not
//     exist yet.
//   - An error if the copy fails.
func (fm *FileManager) BackupFile(filePath string) (string, error) {
	if fm.BackupDir == "" {
		return "", nil
	}
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	backupPath := fm.backupPath(filePath)
	if err := os.MkdirAll(filepath.Dir(backupPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := copyFile(filePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", filePath, err)
	}
	return backupPath, nil
}

// backupPath returns <BackupDir>[/YYYY/MM/DD]/<name>_<timestamp>_<id><ext>.
func (fm *FileManager) backupPath(filePath string) string {
	now := fm.clock()
	ext := filepath.Ext(filePath)
	base := strings.TrimSuffix(filepath.Base(filePath), ext)

	name := GenerateOutputFileName(base+"_{timestamp}_{shortid}", ext, map[string]string{
		"shortid": uuid.New().String()[:8],
	})

	dir := fm.BackupDir
	if fm.UseTimestampSubdirs {
		dir = filepath.Join(dir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}
	return filepath.Join(dir, name)
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to a temporary file in the target directory and
// renames it over path, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDirectories(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders in format and appends ext
// when the result does not already end with it.
//
// PARAMETERS:
//   - format: The name pattern. Supported placeholders:
//     {uuid}, {timestamp} (YYYYMMDD_HHMMSS), {date}, {time}, plus any key of
//     params written as {key}.
//   - ext: The extension including the dot, e.g. ".json". May be empty.
//   - params: Additional placeholder values.
//
// EXAMPLE:
//
//	GenerateOutputFileName("courses_{semester}_{timestamp}", ".json",
//	    map[string]string{"semester": "2502"})
//	// courses_2502_20250115_143022.json
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary describes one pipeline run for the summary log.
type RunSummary struct {
	RunID     string
	Command   string
	StartTime time.Time
	EndTime   time.Time
	DryRun    bool

	CoursesFile  string
	CatalogFile  string
	RowsSeen     int
	RowsSkipped  int
	RecordsBuilt int

	RoomChartFile   string
	ChartDownloaded bool
	ChartSkipped    string
	CodesMapped     int
	Unresolved      int
	VenuesChanged   int

	Warnings   int
	BackupPath string
	Exports    []string
}

// WriteSummaryLog writes summary to a timestamped text file in outputDir.
//
// RETURNS:
//   - The path of the summary file.
//   - An error if the file cannot be written.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	if err := EnsureDirectories(outputDir); err != nil {
		return "", err
	}

	name := GenerateOutputFileName("run_summary_{timestamp}_{run}", ".txt", map[string]string{
		"run": shortID(summary.RunID),
	})
	summaryPath := filepath.Join(outputDir, name)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	if err := FormatSummary(file, summary); err != nil {
		return "", err
	}
	return summaryPath, nil
}

// FormatSummary renders summary as text.
func FormatSummary(w io.Writer, summary RunSummary) error {
	writer := bufio.NewWriter(w)
	rule := strings.Repeat("=", 80) + "\n"

	fmt.Fprintf(writer, "Timetable - Run Summary\n%s\n", rule)
	fmt.Fprintf(writer, "Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Command:        %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Dry Run:        %t\n\n",
		summary.RunID,
		summary.Command,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.DryRun,
	)

	if summary.CoursesFile != "" {
		fmt.Fprintf(writer, "Catalogue:\n"+
			"  Courses File:   %s\n"+
			"  Rows Seen:      %d\n"+
			"  Rows Skipped:   %d\n"+
			"  Records Built:  %d\n\n",
			summary.CoursesFile, summary.RowsSeen, summary.RowsSkipped, summary.RecordsBuilt)
	}

	if summary.RoomChartFile != "" || summary.ChartSkipped != "" {
		writer.WriteString("Venues:\n")
		if summary.ChartSkipped != "" {
			fmt.Fprintf(writer, "  Skipped:        %s\n\n", summary.ChartSkipped)
		} else {
			fmt.Fprintf(writer, "  Room Chart:     %s\n"+
				"  Downloaded:     %t\n"+
				"  Codes Mapped:   %d\n"+
				"  Unresolved:     %d\n"+
				"  Changed:        %d\n\n",
				summary.RoomChartFile, summary.ChartDownloaded,
				summary.CodesMapped, summary.Unresolved, summary.VenuesChanged)
		}
	}

	fmt.Fprintf(writer, "Output:\n  Catalogue File: %s\n  Warnings:       %d\n", summary.CatalogFile, summary.Warnings)
	if summary.BackupPath != "" {
		fmt.Fprintf(writer, "  Backup:         %s\n", summary.BackupPath)
	}
	for _, export := range summary.Exports {
		fmt.Fprintf(writer, "  Export:         %s\n", export)
	}

	writer.WriteString("\n" + rule + "End of Summary\n")

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush summary: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "local"
	}
	return id
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
