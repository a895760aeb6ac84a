// =============================================================================
// Timetable - Configuration Module
// =============================================================================
//
// This module loads the YAML configuration shared by every command. The
// configuration names the input exports, the output artifacts and the room
// chart location. Values are resolved in this order:
//
//   1. the YAML file (config.yaml by default; a missing default file is fine)
//   2. built-in defaults for anything left empty
//   3. TIMETABLE_* environment variables
//   4. command line flags (applied by the cmd package)
//
// Example config.yaml:
//
//   semester_code: "2502"
//   courses_file: ./Courses_Offered.csv
//   catalog_file: ./src/courses.json
//   room_chart_url: https://web.iitd.ac.in/~tti/timetable/Room_Allotment_Chart_2025_2026_2.pdf
//   room_chart_file: ./Room_Allotment_Chart_2025_2026_2.pdf
//   download_timeout: 60s
//   insecure_skip_verify: true
//   text_mode: rows
//   log_level: info
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file used when --config is not given.
const DefaultPath = "config.yaml"

// Environment variables that override file values.
const (
	EnvCoursesFile  = "TIMETABLE_COURSES_FILE"
	EnvCatalogFile  = "TIMETABLE_CATALOG_FILE"
	EnvRoomChartURL = "TIMETABLE_ROOM_CHART_URL"
	EnvLogLevel     = "TIMETABLE_LOG_LEVEL"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config is the complete run configuration.
type Config struct {
	// -------------------------------------------------------------------------
	// Catalogue
	// -------------------------------------------------------------------------

	// SemesterCode is stamped on every course record.
	SemesterCode string `yaml:"semester_code"`

	// CoursesFile is the tabular course export (.csv or .xlsx).
	CoursesFile string `yaml:"courses_file"`

	// CoursesSheet selects the XLSX sheet. Empty means the first sheet.
	CoursesSheet string `yaml:"courses_sheet"`

	// CSVDelimiter is the CSV field separator: a character, "tab" or "pipe".
	CSVDelimiter string `yaml:"csv_delimiter"`

	// CatalogFile is the canonical JSON artifact.
	CatalogFile string `yaml:"catalog_file"`

	// CSVExportFile and XMLExportFile are optional extra exports.
	CSVExportFile string `yaml:"csv_export_file"`
	XMLExportFile string `yaml:"xml_export_file"`

	// -------------------------------------------------------------------------
	// Venues
	// -------------------------------------------------------------------------

	// RoomChartURL is downloaded before every venue sync. Empty disables
	// the download; the local file is used as is.
	RoomChartURL string `yaml:"room_chart_url"`

	// RoomChartFile is where the chart is stored and read from.
	RoomChartFile string `yaml:"room_chart_file"`

	// DownloadTimeout bounds the chart download.
	DownloadTimeout time.Duration `yaml:"download_timeout"`

	// InsecureSkipVerify disables TLS verification for the download.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// TextMode is the PDF extraction mode: "rows" or "plain".
	TextMode string `yaml:"text_mode"`

	// ResetOnPageBreak clears the scanner's carry-forward state at the start
	// of every chart page.
	ResetOnPageBreak bool `yaml:"reset_on_page_break"`

	// CourseCodePattern overrides the regular expression for course codes
	// in the chart text.
	CourseCodePattern string `yaml:"course_code_pattern"`

	// -------------------------------------------------------------------------
	// Housekeeping
	// -------------------------------------------------------------------------

	// BackupDir receives a copy of the catalogue before it is replaced.
	// Empty disables backups.
	BackupDir string `yaml:"backup_dir"`

	// ReportDir receives run summaries and validation logs. Empty disables
	// them.
	ReportDir string `yaml:"report_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFile adds a file output to the log. Empty logs to stderr only.
	LogFile string `yaml:"log_file"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path.
//
// PARAMETERS:
//   - path: The YAML file. Empty means DefaultPath.
//   - required: When false a missing file yields the defaults; when true
//     (the user named the file explicitly) a missing file is an error.
//
// RETURNS:
//   - The resolved configuration.
//   - An error if the file cannot be read or parsed, or fails validation.
func Load(path string, required bool) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyDefaults sets default values for fields that are empty.
func applyDefaults(cfg *Config) {
	if cfg.SemesterCode == "" {
		cfg.SemesterCode = "2502"
	}
	if cfg.CoursesFile == "" {
		cfg.CoursesFile = "./Courses_Offered.csv"
	}
	if cfg.CSVDelimiter == "" {
		cfg.CSVDelimiter = ","
	}
	if cfg.CatalogFile == "" {
		cfg.CatalogFile = "./src/courses.json"
	}
	if cfg.RoomChartFile == "" {
		cfg.RoomChartFile = "./Room_Allotment_Chart_2025_2026_2.pdf"
	}
	if cfg.DownloadTimeout == 0 {
		cfg.DownloadTimeout = 60 * time.Second
	}
	if cfg.TextMode == "" {
		cfg.TextMode = "rows"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// applyEnv applies the TIMETABLE_* overrides.
func applyEnv(cfg *Config) {
	for env, field := range map[string]*string{
		EnvCoursesFile:  &cfg.CoursesFile,
		EnvCatalogFile:  &cfg.CatalogFile,
		EnvRoomChartURL: &cfg.RoomChartURL,
		EnvLogLevel:     &cfg.LogLevel,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*field = strings.TrimSpace(v)
		}
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.CoursesFile) == "" {
		problems = append(problems, "courses_file is required")
	}
	if strings.TrimSpace(c.CatalogFile) == "" {
		problems = append(problems, "catalog_file is required")
	}
	if c.DownloadTimeout < 0 {
		problems = append(problems, "download_timeout must not be negative")
	}

	switch strings.ToLower(c.TextMode) {
	case "rows", "plain":
	default:
		problems = append(problems, fmt.Sprintf("text_mode %q must be rows or plain", c.TextMode))
	}

	if _, err := c.Level(); err != nil {
		problems = append(problems, fmt.Sprintf("log_level %q is not a valid level", c.LogLevel))
	}

	if c.CourseCodePattern != "" {
		if _, err := regexp.Compile(c.CourseCodePattern); err != nil {
			problems = append(problems, fmt.Sprintf("course_code_pattern: %v", err))
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}
