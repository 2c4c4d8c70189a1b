package content_safety

// ContentSafetyData is attached to the plugin event. It never carries the
// inspected text, only where it was found and how it was judged.
type ContentSafetyData struct {
	Mode        string    `json:"mode"`
	Action      string    `json:"action"`
	MinSeverity string    `json:"min_severity"`
	Decision    string    `json:"decision"`
	Inspected   int       `json:"inspected"`
	Flagged     bool      `json:"flagged"`
	Findings    []Finding `json:"findings,omitempty"`
}

type Finding struct {
	Path       string `json:"path"`
	Severity   string `json:"severity"`
	Reason     string `json:"reason"`
	Rule       string `json:"rule"`
	TextLength int    `json:"text_length"`
}
