package lint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSeverity is returned when a severity name is not recognised.
var ErrInvalidSeverity = errors.New("invalid severity")

// Severity ranks diagnostics.
type Severity int

// Severities in ascending order.
const (
	SeverityOff Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityOff:     "off",
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}

	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity parses a severity name. "warn" is accepted for warning.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "off", "none":
		return SeverityOff, nil
	case "info":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityOff, fmt.Errorf("%w: %q", ErrInvalidSeverity, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}
