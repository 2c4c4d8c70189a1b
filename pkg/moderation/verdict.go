package moderation

import "encoding/json"

// Verdict is the result of classifying one text. The boolean convenience
// accessors are derived from Severity and cannot disagree with it.
type Verdict struct {
	Severity Severity
	Reason   string
	Rule     string
	Scores   CategoryScores
	Flags    Flags
}

func (v Verdict) IsFlagged() bool   { return v.Severity != SeveritySafe }
func (v Verdict) ShouldBlur() bool  { return v.Severity == SeverityBlur }
func (v Verdict) ShouldWarn() bool  { return v.Severity == SeverityWarning }
func (v Verdict) ShouldBlock() bool { return v.Severity == SeverityBlock }

type verdictJSON struct {
	Severity        Severity       `json:"severity"`
	Reason          string         `json:"reason"`
	Rule            string         `json:"rule,omitempty"`
	Scores          CategoryScores `json:"scores"`
	IsFlagged       bool           `json:"is_flagged"`
	ShouldBlur      bool           `json:"should_blur"`
	ShouldWarn      bool           `json:"should_warn"`
	ShouldBlock     bool           `json:"should_block"`
	AdditionalFlags Flags          `json:"additional_flags"`
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	scores := v.Scores
	if scores == nil {
		scores = CategoryScores{}
	}
	return json.Marshal(verdictJSON{
		Severity:        v.Severity,
		Reason:          v.Reason,
		Rule:            v.Rule,
		Scores:          scores,
		IsFlagged:       v.IsFlagged(),
		ShouldBlur:      v.ShouldBlur(),
		ShouldWarn:      v.ShouldWarn(),
		ShouldBlock:     v.ShouldBlock(),
		AdditionalFlags: v.Flags,
	})
}

// UnmarshalJSON restores a stored verdict. Derived booleans in the payload
// are ignored; they are recomputed from the severity.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var raw verdictJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	scores := raw.Scores
	if scores == nil {
		scores = CategoryScores{}
	}
	*v = Verdict{
		Severity: raw.Severity,
		Reason:   raw.Reason,
		Rule:     raw.Rule,
		Scores:   scores,
		Flags:    raw.AdditionalFlags,
	}
	return nil
}

// GatedOutput pairs a verdict with the text a caller may persist.
type GatedOutput struct {
	Verdict       Verdict `json:"verdict"`
	SanitizedText string  `json:"sanitized_text"`
	AllowPost     bool    `json:"allow_post"`
}
