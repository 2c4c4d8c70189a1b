package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/ContentGuard/pkg/domain/telemetry"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/telemetry/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockExporter struct {
	name            string
	validateErr     error
	withSettingsErr error
	closed          int
}

func newMockExporter(name string) *mockExporter {
	return &mockExporter{name: name}
}

func (m *mockExporter) Name() string {
	return m.name
}

func (m *mockExporter) ValidateConfig(map[string]interface{}) error {
	return m.validateErr
}

func (m *mockExporter) Handle(context.Context, *metric_events.Event) error {
	return nil
}

func (m *mockExporter) WithSettings(map[string]interface{}) (telemetry.Exporter, error) {
	if m.withSettingsErr != nil {
		return nil, m.withSettingsErr
	}
	return m, nil
}

func (m *mockExporter) Close() {
	m.closed++
}

func TestNewExporterLocator(t *testing.T) {
	empty := NewExporterLocator()
	assert.Empty(t, empty.exporters)

	first := newMockExporter("first")
	second := newMockExporter("first")
	locator := NewExporterLocator(WithExporter("first", first), WithExporter("first", second))
	assert.Len(t, locator.exporters, 1)
	assert.Same(t, second, locator.exporters["first"])
}

func TestExporterLocator_GetExporter(t *testing.T) {
	valid := newMockExporter("valid")
	invalid := newMockExporter("invalid")
	invalid.validateErr = errors.New("bad settings")
	broken := newMockExporter("broken")
	broken.withSettingsErr = errors.New("cannot connect")

	locator := NewExporterLocator(
		WithExporter("valid", valid),
		WithExporter("invalid", invalid),
		WithExporter("broken", broken),
	)

	exp, err := locator.GetExporter(telemetry.ExporterConfig{Name: "valid"})
	require.NoError(t, err)
	assert.Same(t, valid, exp)

	_, err = locator.GetExporter(telemetry.ExporterConfig{Name: "missing"})
	assert.ErrorContains(t, err, "unknown exporter: missing")

	_, err = locator.GetExporter(telemetry.ExporterConfig{Name: "invalid"})
	assert.ErrorContains(t, err, "bad settings")

	_, err = locator.GetExporter(telemetry.ExporterConfig{Name: "broken"})
	assert.ErrorContains(t, err, "cannot connect")

	assert.NoError(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "valid"}))
	assert.Error(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "invalid"}))
}

func TestExporterLocator_Build(t *testing.T) {
	a := newMockExporter("a")
	b := newMockExporter("b")
	b.withSettingsErr = errors.New("boom")

	locator := NewExporterLocator(WithExporter("a", a), WithExporter("b", b))

	built, err := locator.Build([]telemetry.ExporterConfig{{Name: "a"}})
	require.NoError(t, err)
	assert.Len(t, built, 1)

	_, err = locator.Build([]telemetry.ExporterConfig{{Name: "a"}, {Name: "b"}})
	assert.ErrorContains(t, err, "exporter b")
	assert.Equal(t, 1, a.closed)

	_, err = locator.Build([]telemetry.ExporterConfig{{Name: "a"}, {Name: "a"}})
	assert.ErrorContains(t, err, "duplicate exporter")
}

func TestExporterLocator_KafkaValidation(t *testing.T) {
	locator := NewExporterLocator(WithExporter(kafka.ExporterName, kafka.NewKafkaExporter()))

	err := locator.ValidateExporter(telemetry.ExporterConfig{
		Name:     kafka.ExporterName,
		Settings: map[string]interface{}{"host": "localhost", "port": "9092"},
	})
	assert.ErrorContains(t, err, "kafka topic is required")
}
