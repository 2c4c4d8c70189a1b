package metrics

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/NeuralTrust/ContentGuard/pkg/domain/telemetry"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExporter struct {
	mu     sync.Mutex
	events []*metric_events.Event
	err    error
	closed bool
}

func (r *recordingExporter) Name() string { return "recording" }

func (r *recordingExporter) ValidateConfig(map[string]interface{}) error { return nil }

func (r *recordingExporter) WithSettings(map[string]interface{}) (telemetry.Exporter, error) {
	return r, nil
}

func (r *recordingExporter) Handle(_ context.Context, evt *metric_events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return r.err
}

func (r *recordingExporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func verdictEvent(severity, context, rule string) *metric_events.Event {
	evt := metric_events.NewVerdictEvent(metric_events.SourceAPI)
	evt.Severity = severity
	evt.Context = context
	evt.Rule = rule
	return evt
}

func TestWorker_ExportsOnlyFlaggedVerdicts(t *testing.T) {
	exporter := &recordingExporter{}
	w := NewWorker(logrus.New(), exporter)
	w.StartWorkers(2)

	before := testutil.ToFloat64(prometheus.VerdictsTotal.WithLabelValues("SAFE", "worker-test"))

	w.Process(
		verdictEvent("SAFE", "worker-test", "safe"),
		verdictEvent("BLOCK", "worker-test", "sexual_minors"),
		nil,
	)
	w.Shutdown()

	assert.True(t, exporter.closed)
	require.Len(t, exporter.events, 1)
	assert.Equal(t, "BLOCK", exporter.events[0].Severity)
	assert.Equal(t, before+1, testutil.ToFloat64(prometheus.VerdictsTotal.WithLabelValues("SAFE", "worker-test")))
}

func TestWorker_ExportsPluginEvents(t *testing.T) {
	exporter := &recordingExporter{}
	w := NewWorker(logrus.New(), exporter)
	w.StartWorkers(1)

	blocked := prometheus.PluginDecisionsTotal.WithLabelValues("content_safety", "enforce", "blocked")
	failed := prometheus.PluginDecisionsTotal.WithLabelValues("request_size_limiter", "", "error")
	blockedBefore, failedBefore := testutil.ToFloat64(blocked), testutil.ToFloat64(failed)

	collector := NewCollector(WithTraceID("trace-1"))
	evtCtx := NewEventContext("content_safety", "pre_request", collector)
	evtCtx.SetDecision("enforce", "blocked")
	evtCtx.Publish()

	limiterCtx := NewEventContext("request_size_limiter", "pre_request", collector)
	limiterCtx.SetError(errors.New("too large"))
	limiterCtx.Publish()

	w.Process(collector.Flush()...)
	w.Shutdown()

	require.Len(t, exporter.events, 2)
	assert.Equal(t, "trace-1", exporter.events[0].TraceID)
	assert.Equal(t, "blocked", exporter.events[0].Plugin.Decision)
	assert.Equal(t, blockedBefore+1, testutil.ToFloat64(blocked))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestWorker_ExporterFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	exporter := &recordingExporter{err: errors.New("broker down")}
	w := NewWorker(logger, exporter)
	w.StartWorkers(1)
	w.Process(verdictEvent("WARNING", "worker-test", "harassment"))
	w.Shutdown()

	assert.Contains(t, buf.String(), "exporter failed")
	assert.Contains(t, buf.String(), "broker down")
}

func TestWorker_ProcessAfterShutdown(t *testing.T) {
	exporter := &recordingExporter{}
	w := NewWorker(logrus.New(), exporter)
	w.StartWorkers(1)
	w.Shutdown()
	w.Shutdown()

	assert.NotPanics(t, func() {
		w.Process(verdictEvent("BLOCK", "worker-test", "self_harm_block"))
	})
	assert.Empty(t, exporter.events)
}
