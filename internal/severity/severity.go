// Package severity provides the severity levels attached to build check rules.
//
// The zero value is SeverityError, so a rule that names no severity fails the
// check when it fails.
package severity

import (
	"fmt"
	"strings"
)

// Severity indicates how a failed rule affects the overall result.
type Severity int

const (
	// SeverityError fails the check run.
	SeverityError Severity = iota

	// SeverityWarning is reported but does not fail the run.
	SeverityWarning

	// SeverityInfo is informational only.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Fails reports whether a failed rule at this level fails the run.
func (s Severity) Fails() bool {
	return s == SeverityError
}

// Parse converts a level name (case-insensitive) to a Severity. The empty
// string is SeverityError.
func Parse(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityError, fmt.Errorf("severity: unknown level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
