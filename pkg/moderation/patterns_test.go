package moderation_test

import (
	"testing"

	"github.com/NeuralTrust/ContentGuard/pkg/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPatternSet_Validation(t *testing.T) {
	tests := []struct {
		name    string
		def     moderation.GroupDefinition
		wantErr error
	}{
		{
			name:    "unknown category",
			def:     moderation.GroupDefinition{Category: "spam", Name: "links", Pattern: `http`, Weight: 0.3},
			wantErr: moderation.ErrUnknownCategory,
		},
		{
			name:    "empty name",
			def:     moderation.GroupDefinition{Category: moderation.Harassment, Pattern: `x`, Weight: 0.3},
			wantErr: moderation.ErrInvalidPattern,
		},
		{
			name:    "empty pattern",
			def:     moderation.GroupDefinition{Category: moderation.Harassment, Name: "empty", Weight: 0.3},
			wantErr: moderation.ErrInvalidPattern,
		},
		{
			name:    "zero weight",
			def:     moderation.GroupDefinition{Category: moderation.Harassment, Name: "w", Pattern: `x`},
			wantErr: moderation.ErrInvalidPattern,
		},
		{
			name:    "weight above one",
			def:     moderation.GroupDefinition{Category: moderation.Harassment, Name: "w", Pattern: `x`, Weight: 1.5},
			wantErr: moderation.ErrInvalidPattern,
		},
		{
			name:    "invalid regex",
			def:     moderation.GroupDefinition{Category: moderation.Harassment, Name: "broken", Pattern: `(unclosed`, Weight: 0.3},
			wantErr: moderation.ErrInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := moderation.NewPatternSet([]moderation.GroupDefinition{tt.def})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, ps)
		})
	}
}

func TestNewPatternSet_Duplicate(t *testing.T) {
	def := moderation.GroupDefinition{Category: moderation.Profanity, Name: "extra", Pattern: `heck`, Weight: 0.2}
	_, err := moderation.NewPatternSet([]moderation.GroupDefinition{def, def})
	assert.ErrorIs(t, err, moderation.ErrInvalidPattern)

	_, err = moderation.DefaultPatternSet.Extend([]moderation.GroupDefinition{
		{Category: moderation.Profanity, Name: "mild", Pattern: `heck`, Weight: 0.2},
	})
	assert.ErrorIs(t, err, moderation.ErrInvalidPattern)
}

func TestDefaultPatternSet(t *testing.T) {
	for _, c := range moderation.Categories {
		assert.NotEmpty(t, moderation.DefaultPatternSet.GroupNames(c), "category %s has no groups", c)
	}
	assert.Equal(t, []string{"mild", "strong"}, moderation.DefaultPatternSet.GroupNames(moderation.Profanity))
	assert.Len(t, moderation.DefaultPatternSet.Definitions(), moderation.DefaultPatternSet.Len())
}

func TestPatternSet_Extend(t *testing.T) {
	before := moderation.DefaultPatternSet.Len()

	extended, err := moderation.DefaultPatternSet.Extend([]moderation.GroupDefinition{
		{Category: moderation.Harassment, Name: "doxxing", Pattern: `\bdox(?:x)?(?:ing|ed)?\b`, Weight: 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, before+1, extended.Len())
	assert.Equal(t, before, moderation.DefaultPatternSet.Len())
	assert.Contains(t, extended.GroupNames(moderation.Harassment), "doxxing")

	engine := moderation.NewEngine(moderation.WithPatternSet(extended))
	verdict := engine.Classify("I will dox you")
	assert.Equal(t, 0.5, verdict.Scores[moderation.Harassment])
	assert.Equal(t, moderation.ReasonHarassment, verdict.Reason)

	assert.Equal(t, moderation.SeveritySafe, moderation.Classify("I will dox you").Severity)
}

func TestAnalyzer_Matches(t *testing.T) {
	engine := moderation.NewEngine()
	analysis := engine.Analyze("looking for child porn")

	assert.True(t, analysis.MinorsSexualContent)
	groups := map[string]int{}
	for _, m := range analysis.Matches {
		groups[string(m.Category)+"/"+m.Group] = m.Count
	}
	assert.Equal(t, 1, groups["sexual/minors"])
	assert.Equal(t, 1, groups["sexual/explicit"])
	assert.Equal(t, 1.0, analysis.Scores[moderation.Sexual])
}

func TestAnalyzer_CaseInsensitive(t *testing.T) {
	lower := moderation.Classify("you are an idiot")
	upper := moderation.Classify("YOU ARE AN IDIOT")
	assert.Equal(t, lower.Scores, upper.Scores)
	assert.Equal(t, lower.Severity, upper.Severity)
}

func TestAnalyzer_PunctuationIsNotObfuscation(t *testing.T) {
	verdict := moderation.Classify("Wow! This is great!")
	assert.Equal(t, moderation.SeveritySafe, verdict.Severity)
}
