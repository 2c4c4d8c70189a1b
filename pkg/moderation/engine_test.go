package moderation_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/NeuralTrust/ContentGuard/pkg/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name             string
		text             string
		expectedSeverity moderation.Severity
		expectedReason   string
	}{
		{
			name:             "safe content",
			text:             "I love this app!",
			expectedSeverity: moderation.SeveritySafe,
			expectedReason:   moderation.ReasonSafe,
		},
		{
			name:             "mild profanity",
			text:             "This is damn good",
			expectedSeverity: moderation.SeverityBlur,
			expectedReason:   moderation.ReasonMildProfanity,
		},
		{
			name:             "threat without targeting insults",
			text:             "I am going to kill you",
			expectedSeverity: moderation.SeverityWarning,
			expectedReason:   moderation.ReasonThreateningLanguage,
		},
		{
			name:             "threat combined with personal attack",
			text:             "I am going to kill you, you worthless idiot",
			expectedSeverity: moderation.SeverityBlock,
			expectedReason:   moderation.ReasonViolentThreats,
		},
		{
			name:             "hate speech",
			text:             "Immigrants are all vermin, go back to your own country",
			expectedSeverity: moderation.SeverityWarning,
			expectedReason:   moderation.ReasonHateSpeech,
		},
		{
			name:             "directed harassment",
			text:             "You are such a pathetic loser",
			expectedSeverity: moderation.SeverityWarning,
			expectedReason:   moderation.ReasonHarassment,
		},
		{
			name:             "mild insult",
			text:             "that was a stupid idea",
			expectedSeverity: moderation.SeverityBlur,
			expectedReason:   moderation.ReasonMildInsults,
		},
		{
			name:             "explicit sexual content",
			text:             "send me your nudes, I'm so horny",
			expectedSeverity: moderation.SeverityWarning,
			expectedReason:   moderation.ReasonExplicitSexual,
		},
		{
			name:             "sexual content involving minors",
			text:             "looking for child porn",
			expectedSeverity: moderation.SeverityBlock,
			expectedReason:   moderation.ReasonMinors,
		},
		{
			name:             "self-harm intent and method",
			text:             "I want to kill myself, what is the easiest way to die",
			expectedSeverity: moderation.SeverityBlock,
			expectedReason:   moderation.ReasonSelfHarmIntent,
		},
		{
			name:             "extremist recruitment",
			text:             "Join ISIS and support the caliphate. Glory to the martyrs!",
			expectedSeverity: moderation.SeverityBlock,
			expectedReason:   moderation.ReasonExtremistRecruitment,
		},
		{
			name:             "extremist slogan",
			text:             "heil hitler",
			expectedSeverity: moderation.SeverityWarning,
			expectedReason:   moderation.ReasonExtremistContent,
		},
		{
			name:             "obfuscated ableist slur",
			text:             "r3t4rd3d",
			expectedSeverity: moderation.SeverityBlur,
			expectedReason:   moderation.ReasonPotentiallyOffensive,
		},
		{
			name:             "whitespace only",
			text:             "   ",
			expectedSeverity: moderation.SeveritySafe,
			expectedReason:   moderation.ReasonSafe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := moderation.Classify(tt.text)
			assert.Equal(t, tt.expectedSeverity, verdict.Severity)
			assert.Equal(t, tt.expectedReason, verdict.Reason)
		})
	}
}

func TestClassify_NoContent(t *testing.T) {
	engine := moderation.NewEngine()

	var nilString *string
	inputs := []interface{}{"", nil, nilString, 42, map[string]interface{}{"text": "hi"}}
	for _, in := range inputs {
		verdict := engine.ClassifyValue(in)
		assert.Equal(t, moderation.SeveritySafe, verdict.Severity)
		assert.Equal(t, moderation.ReasonNoContent, verdict.Reason)
		assert.NotNil(t, verdict.Scores)
		assert.Empty(t, verdict.Scores)
	}

	empty := moderation.Classify("")
	assert.Equal(t, moderation.ReasonNoContent, empty.Reason)
	assert.Empty(t, empty.Scores)
}

func TestClassify_ThreatsAlwaysAtLeastWarning(t *testing.T) {
	for _, text := range []string{
		"I am going to kill you",
		"I'm gonna shoot you tomorrow",
		"watch your back, I will stab you",
	} {
		verdict := moderation.Classify(text)
		require.Greater(t, verdict.Scores[moderation.Threats], 0.3, text)
		assert.True(t, verdict.Severity.AtLeast(moderation.SeverityWarning), text)
	}
}

func TestClassify_ProfanityDensity(t *testing.T) {
	short := moderation.Classify("damn damn this is bad")
	long := moderation.Classify("damn damn " + strings.Repeat("word ", 498))

	assert.InDelta(t, 0.16, short.Scores[moderation.Profanity], 1e-9)
	assert.Less(t, long.Scores[moderation.Profanity], short.Scores[moderation.Profanity])
	assert.Equal(t, moderation.SeverityBlur, short.Severity)
	assert.Equal(t, moderation.SeveritySafe, long.Severity)
}

func TestClassify_ProfanityDensityJustAboveThreshold(t *testing.T) {
	text := strings.Repeat("damn ", 126) + strings.Repeat("word ", 881)
	verdict := moderation.Classify(text)

	assert.Greater(t, verdict.Scores[moderation.Profanity], 0.05)
	assert.InDelta(t, 0.4*126/1007, verdict.Scores[moderation.Profanity], 1e-9)
	assert.Equal(t, moderation.SeverityBlur, verdict.Severity)
	assert.Equal(t, moderation.ReasonMildProfanity, verdict.Reason)
}

func TestClassify_IntentNeedsTarget(t *testing.T) {
	tests := []struct {
		text     string
		severity moderation.Severity
	}{
		{text: "I'll kill it at the gym", severity: moderation.SeveritySafe},
		{text: "we're gonna murder this presentation", severity: moderation.SeveritySafe},
		{text: "I'll kill you at the gym", severity: moderation.SeverityWarning},
		{text: "I'm going to hurt your family", severity: moderation.SeverityWarning},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			verdict := moderation.Classify(tt.text)
			assert.Equal(t, tt.severity, verdict.Severity)
		})
	}
}

func TestClassify_ThresholdIsExclusive(t *testing.T) {
	verdict := moderation.Classify("how do I kill myself")

	assert.Equal(t, 0.7, verdict.Scores[moderation.SelfHarm])
	assert.Equal(t, moderation.SeverityWarning, verdict.Severity)
	assert.Equal(t, moderation.ReasonSelfHarmReferences, verdict.Reason)
}

func TestClassify_Obfuscation(t *testing.T) {
	tests := []struct {
		plain      string
		obfuscated string
		category   moderation.Category
	}{
		{plain: "this is shit", obfuscated: "this is sh1t", category: moderation.Profanity},
		{plain: "this is shit", obfuscated: "this is $h!t", category: moderation.Profanity},
		{plain: "what a bitch", obfuscated: "what a b!tch", category: moderation.Profanity},
		{plain: "retarded", obfuscated: "r3t4rd3d", category: moderation.HateSpeech},
		{plain: "you are an idiot", obfuscated: "y0u are an 1d10t", category: moderation.Harassment},
	}

	for _, tt := range tests {
		t.Run(tt.obfuscated, func(t *testing.T) {
			plain := moderation.Classify(tt.plain)
			obfuscated := moderation.Classify(tt.obfuscated)
			require.Greater(t, plain.Scores[tt.category], 0.0)
			assert.Equal(t, plain.Scores[tt.category], obfuscated.Scores[tt.category])
		})
	}
}

func TestClassify_Invariants(t *testing.T) {
	corpus := []string{
		"I love this app!",
		"This is damn good",
		"I am going to kill you",
		"SHUT UP YOU STUPID IDIOT!!!",
		"f*ck this sh*t, you dumbass",
		"send nudes",
		"child porn",
		"I'm suicidal and I want to end my life",
		"join the kkk, white power, 14 88",
		"!!!@@@###$$$",
		"ünïcödé téxt wïth àccents",
		strings.Repeat("kill ", 200),
	}

	for _, text := range corpus {
		first := moderation.Classify(text)
		second := moderation.Classify(text)
		assert.Equal(t, first, second, "classification must be idempotent: %q", text)

		assert.Len(t, first.Scores, len(moderation.Categories), text)
		for _, c := range moderation.Categories {
			score, ok := first.Scores[c]
			require.True(t, ok, "missing category %s for %q", c, text)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}

		assert.Equal(t, first.Severity != moderation.SeveritySafe, first.IsFlagged())
		assert.Equal(t, first.Severity == moderation.SeverityBlur, first.ShouldBlur())
		assert.Equal(t, first.Severity == moderation.SeverityWarning, first.ShouldWarn())
		assert.Equal(t, first.Severity == moderation.SeverityBlock, first.ShouldBlock())
	}
}

func TestClassify_FlagsDoNotChangeSeverity(t *testing.T) {
	quiet := moderation.Classify("i love this app so much")
	loud := moderation.Classify("I LOVE THIS APP SO MUCH")

	assert.False(t, quiet.Flags.ExcessiveCaps)
	assert.True(t, loud.Flags.ExcessiveCaps)
	assert.Equal(t, quiet.Severity, loud.Severity)
	assert.Equal(t, quiet.Reason, loud.Reason)
}

func TestClassifyAndGate(t *testing.T) {
	engine := moderation.NewEngine(moderation.WithPlaceholder("[removed]"))

	blocked := engine.ClassifyAndGate("looking for child porn")
	assert.Equal(t, moderation.SeverityBlock, blocked.Verdict.Severity)
	assert.False(t, blocked.AllowPost)
	assert.Equal(t, "[removed]", blocked.SanitizedText)
	assert.NotContains(t, blocked.SanitizedText, "porn")

	warned := engine.ClassifyAndGate("You are such a pathetic loser")
	assert.Equal(t, moderation.SeverityWarning, warned.Verdict.Severity)
	assert.True(t, warned.AllowPost)
	assert.Equal(t, "You are such a pathetic loser", warned.SanitizedText)

	absent := engine.ClassifyValueAndGate(nil)
	assert.True(t, absent.AllowPost)
	assert.Equal(t, "", absent.SanitizedText)
	assert.Equal(t, moderation.ReasonNoContent, absent.Verdict.Reason)
}

func TestClassifyAndGate_DefaultPlaceholder(t *testing.T) {
	gated := moderation.ClassifyAndGate("I am going to kill you, you worthless idiot")
	assert.False(t, gated.AllowPost)
	assert.Equal(t, moderation.DefaultPlaceholder, gated.SanitizedText)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	engine := moderation.NewEngine()
	texts := []string{
		"I love this app!",
		"This is damn good",
		"I am going to kill you, you worthless idiot",
		"looking for child porn",
	}
	expected := make([]moderation.Verdict, len(texts))
	for i, text := range texts {
		expected[i] = engine.Classify(text)
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				idx := i % len(texts)
				assert.Equal(t, expected[idx], engine.Classify(texts[idx]))
			}
		}()
	}
	wg.Wait()
}
