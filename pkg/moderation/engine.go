package moderation

// DefaultPlaceholder replaces blocked text in gated output.
const DefaultPlaceholder = "[This content has been removed for violating our community guidelines]"

// Engine classifies text into a severity verdict. It is immutable after
// construction and safe for concurrent use without locking.
type Engine struct {
	analyzer    *Analyzer
	placeholder string
}

type Option func(*Engine)

// WithPatternSet replaces the default pattern set.
func WithPatternSet(ps *PatternSet) Option {
	return func(e *Engine) {
		if ps != nil {
			e.analyzer = NewAnalyzer(ps)
		}
	}
}

// WithPlaceholder sets the text substituted for blocked content.
func WithPlaceholder(placeholder string) Option {
	return func(e *Engine) {
		if placeholder != "" {
			e.placeholder = placeholder
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		analyzer:    NewAnalyzer(DefaultPatternSet),
		placeholder: DefaultPlaceholder,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Classify runs the default engine.
func Classify(text string) Verdict {
	return defaultEngine.Classify(text)
}

// ClassifyAndGate runs the default engine and gates the result.
func ClassifyAndGate(text string) GatedOutput {
	return defaultEngine.ClassifyAndGate(text)
}

func (e *Engine) Placeholder() string {
	return e.placeholder
}

// Analyze exposes the raw analyzer output for diagnostics.
func (e *Engine) Analyze(text string) Analysis {
	return e.analyzer.Analyze(text)
}

func (e *Engine) Classify(text string) Verdict {
	if text == "" {
		return noContentVerdict()
	}
	analysis := e.analyzer.Analyze(text)
	res := Resolve(analysis)
	return Verdict{
		Severity: res.Severity,
		Reason:   res.Reason,
		Rule:     res.Rule,
		Scores:   analysis.Scores,
		Flags:    DetectFlags(text),
	}
}

// ClassifyValue accepts an arbitrary decoded value. Anything other than a
// non-nil string resolves to the no-content verdict.
func (e *Engine) ClassifyValue(v interface{}) Verdict {
	if text, ok := textOf(v); ok {
		return e.Classify(text)
	}
	return noContentVerdict()
}

func (e *Engine) ClassifyAndGate(text string) GatedOutput {
	return e.gate(e.Classify(text), text)
}

func (e *Engine) ClassifyValueAndGate(v interface{}) GatedOutput {
	text, _ := textOf(v)
	return e.gate(e.ClassifyValue(v), text)
}

func (e *Engine) gate(verdict Verdict, text string) GatedOutput {
	if verdict.ShouldBlock() {
		return GatedOutput{
			Verdict:       verdict,
			SanitizedText: e.placeholder,
			AllowPost:     false,
		}
	}
	return GatedOutput{
		Verdict:       verdict,
		SanitizedText: text,
		AllowPost:     true,
	}
}

func textOf(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case *string:
		if t != nil {
			return *t, true
		}
	}
	return "", false
}

func noContentVerdict() Verdict {
	return Verdict{
		Severity: SeveritySafe,
		Reason:   ReasonNoContent,
		Rule:     RuleNoContent,
		Scores:   CategoryScores{},
	}
}
