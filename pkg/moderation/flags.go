package moderation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	FlagExcessiveCaps         = "excessiveCaps"
	FlagExcessiveSpecialChars = "excessiveSpecialChars"

	specialChars = `!@#$%^&*(),.?":{}|<>`

	capsMinLength  = 10
	capsRatio      = 0.7
	specialCharMax = 0.3
)

// Flags are advisory signals for presentation layers. They never change the
// resolved severity.
type Flags struct {
	ExcessiveCaps         bool `json:"excessive_caps"`
	ExcessiveSpecialChars bool `json:"excessive_special_chars"`
}

// Names returns the set flag names.
func (f Flags) Names() []string {
	var names []string
	if f.ExcessiveCaps {
		names = append(names, FlagExcessiveCaps)
	}
	if f.ExcessiveSpecialChars {
		names = append(names, FlagExcessiveSpecialChars)
	}
	return names
}

// DetectFlags computes the heuristic flags for text.
func DetectFlags(text string) Flags {
	length := utf8.RuneCountInString(text)
	if length == 0 {
		return Flags{}
	}
	var upper, special int
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
		if strings.ContainsRune(specialChars, r) {
			special++
		}
	}
	return Flags{
		ExcessiveCaps:         length > capsMinLength && float64(upper)/float64(length) > capsRatio,
		ExcessiveSpecialChars: float64(special) > specialCharMax*float64(length),
	}
}
