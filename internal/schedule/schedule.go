package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Schedule is an ordered list of canonical tokens. A nil or empty Schedule
// is the "no schedule" value and serializes as JSON null, never "".
type Schedule []Token

// String returns the comma joined canonical tokens.
func (s Schedule) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// IsNull reports whether the schedule carries no tokens.
func (s Schedule) IsNull() bool {
	return len(s) == 0
}

// MarshalJSON implements json.Marshaler.
func (s Schedule) MarshalJSON() ([]byte, error) {
	if s.IsNull() {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler. It accepts null or the canonical
// comma joined form written by MarshalJSON.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("schedule must be a string or null: %w", err)
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Parse decodes the canonical form ("109301100,409301100"). An empty string
// decodes to the null schedule.
func Parse(canonical string) (Schedule, error) {
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return nil, nil
	}

	var tokens Schedule
	for _, part := range strings.Split(canonical, ",") {
		token, err := ParseToken(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// ParseToken decodes a single 9 character token.
func ParseToken(s string) (Token, error) {
	if len(s) != 9 {
		return Token{}, fmt.Errorf("invalid schedule token %q: want 9 digits", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return Token{}, fmt.Errorf("invalid schedule token %q: non-digit", s)
		}
	}

	day := int(s[0] - '0')
	if day < 1 || day > 7 {
		return Token{}, fmt.Errorf("invalid schedule token %q: day %d out of range", s, day)
	}

	startHour, _ := strconv.Atoi(s[1:3])
	endHour, _ := strconv.Atoi(s[5:7])

	return Token{
		Day:   day,
		Start: Clock{Hour: startHour, Minute: s[3:5]},
		End:   Clock{Hour: endHour, Minute: s[7:9]},
	}, nil
}

// DayName returns the export's abbreviation for a day code.
func DayName(day int) string {
	switch day {
	case 1:
		return "M"
	case 2:
		return "T"
	case 3:
		return "W"
	case 4:
		return "Th"
	case 5:
		return "F"
	case 6:
		return "S"
	case 7:
		return "Su"
	}
	return ""
}
