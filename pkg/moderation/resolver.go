package moderation

const (
	ReasonNoContent            = "No content to moderate"
	ReasonMinors               = "Sexual content involving minors"
	ReasonSelfHarmIntent       = "Self-harm instructions or intent"
	ReasonExtremistRecruitment = "Extremist content or recruitment"
	ReasonViolentThreats       = "Violent threats"
	ReasonHateSpeech           = "Hate speech detected"
	ReasonHarassment           = "Harassment or bullying"
	ReasonThreateningLanguage  = "Threatening language"
	ReasonExplicitSexual       = "Explicit sexual content"
	ReasonSelfHarmReferences   = "Self-harm references"
	ReasonExtremistContent     = "Extremist content"
	ReasonMultipleViolations   = "Multiple policy violations"
	ReasonMildProfanity        = "Mild profanity"
	ReasonMildInsults          = "Mild insults"
	ReasonPotentiallyOffensive = "Potentially offensive language"
	ReasonSafe                 = "Content is safe"
)

const (
	RuleNoContent = "no_content"
	RuleSafe      = "safe"

	multipleViolationsThreshold  = 0.6
	harassmentTargetingThreshold = 0.2
)

// Rule is one entry of the ordered severity policy.
type Rule struct {
	Name     string
	Severity Severity
	Reason   string
	Match    func(a Analysis) bool
}

// Resolution is the outcome of running the policy over an analysis.
type Resolution struct {
	Severity Severity
	Reason   string
	Rule     string
}

// policy is evaluated top-down and the first matching rule wins. BLOCK rules
// come first so narrow severe signals are never downgraded, and the
// aggregate rule sits after every single-category WARNING rule.
var policy = []Rule{
	{
		Name:     "sexual_minors",
		Severity: SeverityBlock,
		Reason:   ReasonMinors,
		Match: func(a Analysis) bool {
			return exceeds(a.Scores[Sexual], 0.5) && a.MinorsSexualContent
		},
	},
	{
		Name:     "self_harm_block",
		Severity: SeverityBlock,
		Reason:   ReasonSelfHarmIntent,
		Match:    above(SelfHarm, 0.7),
	},
	{
		Name:     "extremism_block",
		Severity: SeverityBlock,
		Reason:   ReasonExtremistRecruitment,
		Match:    above(Extremism, 0.7),
	},
	{
		Name:     "violent_threats",
		Severity: SeverityBlock,
		Reason:   ReasonViolentThreats,
		Match: func(a Analysis) bool {
			return exceeds(a.Scores[Threats], 0.6) && exceeds(a.Scores[Harassment], harassmentTargetingThreshold)
		},
	},
	{
		Name:     "hate_speech",
		Severity: SeverityWarning,
		Reason:   ReasonHateSpeech,
		Match:    above(HateSpeech, 0.4),
	},
	{
		Name:     "harassment",
		Severity: SeverityWarning,
		Reason:   ReasonHarassment,
		Match: func(a Analysis) bool {
			h := a.Scores[Harassment]
			return exceeds(h, 0.4) || (exceeds(h, 0.2) && exceeds(a.Scores[Profanity], 0.2))
		},
	},
	{
		Name:     "threatening_language",
		Severity: SeverityWarning,
		Reason:   ReasonThreateningLanguage,
		Match:    above(Threats, 0.3),
	},
	{
		Name:     "explicit_sexual",
		Severity: SeverityWarning,
		Reason:   ReasonExplicitSexual,
		Match:    above(Sexual, 0.4),
	},
	{
		Name:     "self_harm_references",
		Severity: SeverityWarning,
		Reason:   ReasonSelfHarmReferences,
		Match:    above(SelfHarm, 0.3),
	},
	{
		Name:     "extremist_content",
		Severity: SeverityWarning,
		Reason:   ReasonExtremistContent,
		Match:    above(Extremism, 0.3),
	},
	{
		// The aggregate is compared unclamped and may exceed 1.
		Name:     "multiple_violations",
		Severity: SeverityWarning,
		Reason:   ReasonMultipleViolations,
		Match: func(a Analysis) bool {
			return exceeds(a.Scores[Harassment]+a.Scores[Threats]+a.Scores[HateSpeech], multipleViolationsThreshold)
		},
	},
	{
		Name:     "mild_profanity",
		Severity: SeverityBlur,
		Reason:   ReasonMildProfanity,
		Match:    above(Profanity, 0.05),
	},
	{
		Name:     "mild_insults",
		Severity: SeverityBlur,
		Reason:   ReasonMildInsults,
		Match:    above(Harassment, 0.2),
	},
	{
		Name:     "potentially_offensive",
		Severity: SeverityBlur,
		Reason:   ReasonPotentiallyOffensive,
		Match:    above(HateSpeech, 0.15),
	},
	{
		Name:     RuleSafe,
		Severity: SeveritySafe,
		Reason:   ReasonSafe,
		Match:    func(Analysis) bool { return true },
	},
}

func above(c Category, threshold float64) func(Analysis) bool {
	return func(a Analysis) bool {
		return exceeds(a.Scores[c], threshold)
	}
}

// exceeds is a strict comparison that ignores differences below the score
// precision, so an uncapped sum like 0.2+0.4 does not pass 0.6.
func exceeds(v, threshold float64) bool {
	return v-threshold > 1/scorePrecision
}

// Rules returns a copy of the ordered policy.
func Rules() []Rule {
	out := make([]Rule, len(policy))
	copy(out, policy)
	return out
}

// Resolve picks exactly one severity for the analysis.
func Resolve(a Analysis) Resolution {
	for _, r := range policy {
		if r.Match(a) {
			return Resolution{Severity: r.Severity, Reason: r.Reason, Rule: r.Name}
		}
	}
	return Resolution{Severity: SeveritySafe, Reason: ReasonSafe, Rule: RuleSafe}
}
