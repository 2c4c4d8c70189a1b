package moderation_test

import (
	"encoding/json"
	"testing"

	"github.com/NeuralTrust/ContentGuard/pkg/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Order(t *testing.T) {
	assert.True(t, moderation.SeverityBlock.AtLeast(moderation.SeverityWarning))
	assert.True(t, moderation.SeverityWarning.AtLeast(moderation.SeverityWarning))
	assert.False(t, moderation.SeverityBlur.AtLeast(moderation.SeverityWarning))
	assert.Equal(t, "Severity(9)", moderation.Severity(9).String())
}

func TestParseSeverity(t *testing.T) {
	s, err := moderation.ParseSeverity(" warning ")
	require.NoError(t, err)
	assert.Equal(t, moderation.SeverityWarning, s)

	_, err = moderation.ParseSeverity("critical")
	assert.ErrorIs(t, err, moderation.ErrUnknownSeverity)
}

func TestVerdict_JSON(t *testing.T) {
	verdict := moderation.Classify("You are such a pathetic loser")
	data, err := json.Marshal(verdict)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "WARNING", raw["severity"])
	assert.Equal(t, moderation.ReasonHarassment, raw["reason"])
	assert.Equal(t, true, raw["is_flagged"])
	assert.Equal(t, true, raw["should_warn"])
	assert.Equal(t, false, raw["should_block"])
	assert.Len(t, raw["scores"], len(moderation.Categories))

	tampered := []byte(`{"severity":"BLUR","reason":"Mild profanity","scores":{},"should_block":true}`)
	var restored moderation.Verdict
	require.NoError(t, json.Unmarshal(tampered, &restored))
	assert.Equal(t, moderation.SeverityBlur, restored.Severity)
	assert.False(t, restored.ShouldBlock())
	assert.True(t, restored.ShouldBlur())
}
