package logs

import (
	"bytes"
	"context"
	"testing"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	base := NewLogsExporter(logger)
	require.NoError(t, base.ValidateConfig(map[string]interface{}{"level": "warn"}))
	exp, err := base.WithSettings(map[string]interface{}{"level": "warn"})
	require.NoError(t, err)

	evt := metric_events.NewVerdictEvent(metric_events.SourceAPI)
	evt.Severity = "BLOCK"
	evt.ContentID = "post-1"
	evt.TextHash = metric_events.HashText("secret text")
	require.NoError(t, exp.Handle(context.Background(), evt))

	out := buf.String()
	assert.Contains(t, out, `"level":"warning"`)
	assert.Contains(t, out, `"content_id":"post-1"`)
	assert.NotContains(t, out, "secret text")
}

func TestExporter_ValidateConfig(t *testing.T) {
	exp := NewLogsExporter(logrus.New())
	assert.NoError(t, exp.ValidateConfig(nil))
	assert.Error(t, exp.ValidateConfig(map[string]interface{}{"level": "loud"}))
}
