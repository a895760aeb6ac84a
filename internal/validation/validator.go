// =============================================================================
// Timetable - Validation Module
// =============================================================================
//
// This module checks a built or loaded catalogue for anomalies. The export is
// known to be messy, so almost everything is reported as a WARNING and never
// stops a run. ERROR is reserved for records that break the artifact's own
// invariants (no course code, credits that do not add up), which can only
// happen when the catalogue file was edited by hand.
//
// RULES:
//   - code_missing        ERROR    courseCode is empty
//   - credits_mismatch    ERROR    totalCredits != L + T + P/2
//   - code_shape          WARNING  courseCode is not three letters + 3-4 digits
//   - duplicate_code      WARNING  courseCode appears more than once
//   - name_missing        WARNING  courseName is empty
//   - credit_structure    WARNING  creditStructure text is not an L-T-P triple
//   - schedule_unparsed   WARNING  lectureTimingStr has text but no token parsed
//   - token_range         WARNING  a token's start is not before its end, or a
//                                  clock value is out of range
//   - semester_missing    WARNING  semesterCode is empty
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/itxprashant/IITD-timetable-generator/internal/schedule"
	"github.com/itxprashant/IITD-timetable-generator/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

var (
	codeShape   = regexp.MustCompile(`^[A-Z]{3}\d{3,4}[A-Z]?$`)
	creditShape = regexp.MustCompile(`^\d+(\.\d+)?-\d+(\.\d+)?-\d+(\.\d+)?$`)
)

// =============================================================================
// VALIDATION ERROR STRUCTURE
// =============================================================================

// ValidationError is one finding about one record.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the JSON field name the finding is about.
	Field string

	Value string

	// Rule names the check that produced the finding.
	Rule string

	Message string

	// Index is the 1-based position of the record in the catalogue.
	Index int

	CourseCode string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Course #%d %s, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Index,
		e.CourseCode,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult summarizes a validation pass.
type ValidationResult struct {
	// IsValid is false when any ERROR was found, or any WARNING with
	// TreatWarningsAsErrors.
	IsValid bool

	Errors []*ValidationError

	ErrorCount   int
	WarningCount int

	RecordsValidated int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// CustomValidatorFunc returns a message when rec fails a caller defined check,
// or "" when it passes.
type CustomValidatorFunc func(rec *types.CourseRecord) string

// ValidationOptions configures a Validator.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes any warning invalidate the result.
	TreatWarningsAsErrors bool

	// DisabledRules lists rule names that are skipped.
	DisabledRules []string

	// CustomValidators are extra checks keyed by rule name. Their findings
	// are warnings, reported in rule name order.
	CustomValidators map[string]CustomValidatorFunc
}

// DefaultValidationOptions returns the default options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{
		CustomValidators: make(map[string]CustomValidatorFunc),
	}
}

// Validator checks course records.
type Validator struct {
	options  ValidationOptions
	disabled map[string]bool

	// customRules holds the CustomValidators keys in sorted order.
	customRules []string
}

// NewValidator creates a validator with default options.
func NewValidator() *Validator {
	return NewValidatorWithOptions(DefaultValidationOptions())
}

// NewValidatorWithOptions creates a validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	disabled := make(map[string]bool, len(options.DisabledRules))
	for _, rule := range options.DisabledRules {
		disabled[rule] = true
	}
	customRules := make([]string, 0, len(options.CustomValidators))
	for rule := range options.CustomValidators {
		customRules = append(customRules, rule)
	}
	sort.Strings(customRules)
	return &Validator{options: options, disabled: disabled, customRules: customRules}
}

// Validate checks records with default options and returns the findings.
func Validate(records []types.CourseRecord) []*ValidationError {
	return NewValidator().ValidateAll(records).Errors
}

// ValidateAll checks every record plus the cross-record rules.
func (v *Validator) ValidateAll(records []types.CourseRecord) *ValidationResult {
	result := &ValidationResult{
		IsValid:          true,
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(records),
	}

	seen := make(map[string]int, len(records))
	for i := range records {
		rec := &records[i]
		index := i + 1

		findings := v.ValidateRecord(rec, index)

		if first, ok := seen[rec.CourseCode]; ok && rec.CourseCode != "" {
			findings = v.add(findings, &ValidationError{
				Severity: SeverityWarning,
				Field:    "courseCode",
				Value:    rec.CourseCode,
				Rule:     "duplicate_code",
				Message:  fmt.Sprintf("duplicate of course #%d", first),
			}, rec, index)
		} else if rec.CourseCode != "" {
			seen[rec.CourseCode] = index
		}

		for _, f := range findings {
			result.Errors = append(result.Errors, f)
			if f.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
			} else {
				result.WarningCount++
				if v.options.TreatWarningsAsErrors {
					result.IsValid = false
				}
			}
		}
	}

	return result
}

// ValidateRecord runs the per-record rules. index is the record's 1-based
// position, used in messages.
func (v *Validator) ValidateRecord(rec *types.CourseRecord, index int) []*ValidationError {
	var findings []*ValidationError

	check := func(ok bool, severity, field, value, rule, message string) {
		if ok {
			return
		}
		findings = v.add(findings, &ValidationError{
			Severity: severity,
			Field:    field,
			Value:    value,
			Rule:     rule,
			Message:  message,
		}, rec, index)
	}

	check(rec.CourseCode != "", SeverityError, "courseCode", "", "code_missing",
		"course code is empty")
	check(rec.CourseCode == "" || codeShape.MatchString(rec.CourseCode), SeverityWarning, "courseCode", rec.CourseCode, "code_shape",
		"course code does not look like ABC123")
	check(rec.CourseName != "", SeverityWarning, "courseName", "", "name_missing",
		"course name is empty")
	check(rec.SemesterCode != "", SeverityWarning, "semesterCode", "", "semester_missing",
		"semester code is empty")

	raw := rec.CreditStructure.String()
	check(creditShape.MatchString(raw), SeverityWarning, "creditStructure", raw, "credit_structure",
		"credit structure is not an L-T-P triple")

	want := rec.CreditStructure.Total()
	check(closeEnough(rec.TotalCredits, want), SeverityError, "totalCredits",
		strconv.FormatFloat(rec.TotalCredits, 'f', -1, 64), "credits_mismatch",
		fmt.Sprintf("expected %s from the credit structure", strconv.FormatFloat(want, 'f', -1, 64)))

	timingStr := strings.TrimSpace(rec.Slot.LectureTimingStr)
	check(timingStr == "" || !rec.Slot.LectureTiming.IsNull(), SeverityWarning, "slot.lectureTiming", timingStr, "schedule_unparsed",
		"no meeting could be parsed from the timing text")

	for _, tok := range rec.Slot.LectureTiming {
		if msg := checkToken(tok); msg != "" {
			check(false, SeverityWarning, "slot.lectureTiming", tok.String(), "token_range", msg)
		}
	}

	for _, rule := range v.customRules {
		if msg := v.options.CustomValidators[rule](rec); msg != "" {
			check(false, SeverityWarning, "", "", rule, msg)
		}
	}

	return findings
}

// add appends f unless its rule is disabled.
func (v *Validator) add(findings []*ValidationError, f *ValidationError, rec *types.CourseRecord, index int) []*ValidationError {
	if v.disabled[f.Rule] {
		return findings
	}
	f.Index = index
	f.CourseCode = rec.CourseCode
	return append(findings, f)
}

// checkToken returns a message when the token's clock values are impossible.
func checkToken(tok schedule.Token) string {
	start, ok := minutes(tok.Start)
	if !ok {
		return fmt.Sprintf("start time %s is out of range", tok.Start)
	}
	end, ok := minutes(tok.End)
	if !ok {
		return fmt.Sprintf("end time %s is out of range", tok.End)
	}
	if start >= end {
		return fmt.Sprintf("start %s is not before end %s", tok.Start, tok.End)
	}
	return ""
}

func minutes(c schedule.Clock) (int, bool) {
	m, err := strconv.Atoi(c.Minute)
	if err != nil || len(c.Minute) != 2 || m > 59 || c.Hour < 0 || c.Hour > 23 {
		return 0, false
	}
	return c.Hour*60 + m, true
}

func closeEnough(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

// =============================================================================
// REPORTING
// =============================================================================

// FormatErrors renders findings as a numbered list.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Validation completed with %d finding(s):\n\n", len(errors))
	for i, err := range errors {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, err.Error())
	}
	return builder.String()
}

// WriteErrorLog writes findings to filePath with a header. Nothing is written
// when there are no findings.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	if len(errors) == 0 {
		return nil
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create validation log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Timetable - Validation Log\nGenerated: %s\n%s\n\n",
		time.Now().Format("2006-01-02 15:04:05"), strings.Repeat("=", 80))
	writer.WriteString(FormatErrors(errors))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush validation log: %w", err)
	}
	return nil
}
