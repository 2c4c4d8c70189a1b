package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
	return dir
}

func TestLoadConfigFile_Defaults(t *testing.T) {
	cfg, err := loadConfigFile(t.TempDir(), "config")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Redis.VerdictTTL)
	assert.Equal(t, moderation.DefaultPlaceholder, cfg.Moderation.Placeholder)
	assert.Equal(t, 100, cfg.Moderation.MaxBatchSize)
	assert.Equal(t, "contentguard.verdicts", cfg.Telemetry.Kafka.Topic)
	assert.Equal(t, 4, cfg.Metrics.Workers)
	assert.False(t, cfg.Telemetry.Logs.Enabled)
	assert.Empty(t, cfg.Plugins.Chain)
}

func TestLoadConfigFile_FromYAML(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9000
redis:
  enabled: true
  host: redis
  verdict_ttl: 30m
moderation:
  placeholder: "[hidden]"
  max_batch_size: 10
  custom_patterns:
    - category: harassment
      name: doxxing
      pattern: '\bdox(?:x)?(?:ing|ed)?\b'
      weight: 0.5
telemetry:
  kafka:
    enabled: true
    host: kafka
    port: "29092"
    topic: verdicts
`)
	cfg, err := loadConfigFile(dir, "config")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 30*time.Minute, cfg.Redis.VerdictTTL)
	assert.Equal(t, "[hidden]", cfg.Moderation.Placeholder)
	assert.Equal(t, 10, cfg.Moderation.MaxBatchSize)
	require.Len(t, cfg.Moderation.CustomPatterns, 1)
	assert.Equal(t, moderation.Harassment, cfg.Moderation.CustomPatterns[0].Category)
	assert.Equal(t, 0.5, cfg.Moderation.CustomPatterns[0].Weight)
	assert.Equal(t, "29092", cfg.Telemetry.Kafka.Port)

	ps, err := cfg.Moderation.PatternSet()
	require.NoError(t, err)
	assert.Equal(t, moderation.DefaultPatternSet.Len()+1, ps.Len())
}

func TestLoadConfigFile_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := loadConfigFile(t.TempDir(), "config")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad port", content: "server:\n  port: 70000\n"},
		{name: "zero batch size", content: "moderation:\n  max_batch_size: 0\n"},
		{name: "kafka without topic", content: "telemetry:\n  kafka:\n    enabled: true\n    topic: \"\"\n"},
		{name: "malformed yaml", content: "server: [port\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfigFile(writeConfig(t, tt.content), "config")
			assert.Error(t, err)
		})
	}
}

func TestModerationConfig_PatternSet(t *testing.T) {
	empty := ModerationConfig{}
	ps, err := empty.PatternSet()
	require.NoError(t, err)
	assert.Same(t, moderation.DefaultPatternSet, ps)

	invalid := ModerationConfig{CustomPatterns: []moderation.GroupDefinition{
		{Category: "spam", Name: "links", Pattern: "http", Weight: 0.2},
	}}
	_, err = invalid.PatternSet()
	assert.ErrorIs(t, err, moderation.ErrUnknownCategory)
}

func TestLoadConfigFile_PluginChain(t *testing.T) {
	dir := writeConfig(t, `
plugins:
  ignore_errors: true
  chain:
    - name: content_safety
      enabled: true
      stage: pre_request
      priority: 1
      settings:
        mode: observe
        mapping_field: messages[-1].content
`)
	cfg, err := loadConfigFile(dir, "config")
	require.NoError(t, err)

	assert.True(t, cfg.Plugins.IgnoreErrors)
	require.Len(t, cfg.Plugins.Chain, 1)
	plugin := cfg.Plugins.Chain[0]
	assert.Equal(t, "content_safety", plugin.Name)
	assert.True(t, plugin.Enabled)
	assert.Equal(t, pluginTypes.PreRequest, plugin.Stage)
	assert.Equal(t, 1, plugin.Priority)
	assert.Equal(t, "observe", plugin.Settings["mode"])
	assert.Equal(t, "messages[-1].content", plugin.Settings["mapping_field"])
	assert.Equal(t, cfg.Plugins.Chain, cfg.Plugins.ChainOrDefault())
}

func TestPluginsConfig_ChainOrDefault(t *testing.T) {
	empty := PluginsConfig{}
	chain := empty.ChainOrDefault()

	require.Len(t, chain, 1)
	assert.Equal(t, "content_safety", chain[0].Name)
	assert.True(t, chain[0].Enabled)
	assert.Equal(t, pluginTypes.PreRequest, chain[0].Stage)
	assert.Equal(t, "sanitize", chain[0].Settings["action"])
	assert.Equal(t, "BLOCK", chain[0].Settings["min_severity"])
}

func TestLoad_SetsGlobalConfig(t *testing.T) {
	require.NoError(t, Load(writeConfig(t, "server:\n  port: 8181\n")))
	assert.Equal(t, 8181, GetConfig().Server.Port)
}
