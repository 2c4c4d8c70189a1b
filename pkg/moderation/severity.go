package moderation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the graduated moderation tier. Values are totally ordered.
type Severity int

const (
	SeveritySafe Severity = iota
	SeverityBlur
	SeverityWarning
	SeverityBlock
)

var severityNames = [...]string{
	SeveritySafe:    "SAFE",
	SeverityBlur:    "BLUR",
	SeverityWarning: "WARNING",
	SeverityBlock:   "BLOCK",
}

func (s Severity) String() string {
	if s < SeveritySafe || s > SeverityBlock {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s >= other
}

// ParseSeverity parses a tier name, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Severity(i), nil
		}
	}
	return SeveritySafe, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("severity must be a string: %w", err)
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
