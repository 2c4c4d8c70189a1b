package logs

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/ContentGuard/pkg/domain/telemetry"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

const ExporterName = "logs"

type Config struct {
	Level string `mapstructure:"level"`
}

// Exporter writes events as structured log entries. It is the fallback sink
// when no broker is configured.
type Exporter struct {
	logger *logrus.Logger
	level  logrus.Level
}

func NewLogsExporter(logger *logrus.Logger) *Exporter {
	return &Exporter{logger: logger, level: logrus.InfoLevel}
}

func (e *Exporter) Name() string {
	return ExporterName
}

func (e *Exporter) ValidateConfig(settings map[string]interface{}) error {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return fmt.Errorf("invalid logs exporter config: %w", err)
	}
	if conf.Level == "" {
		return nil
	}
	if _, err := logrus.ParseLevel(conf.Level); err != nil {
		return fmt.Errorf("invalid logs exporter level: %w", err)
	}
	return nil
}

func (e *Exporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return nil, fmt.Errorf("invalid logs exporter config: %w", err)
	}
	level := logrus.InfoLevel
	if conf.Level != "" {
		parsed, err := logrus.ParseLevel(conf.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	return &Exporter{logger: e.logger, level: level}, nil
}

func (e *Exporter) Handle(_ context.Context, evt *metric_events.Event) error {
	fields := logrus.Fields{
		"event_id":    evt.ID,
		"trace_id":    evt.TraceID,
		"type":        evt.Type,
		"source":      evt.Source,
		"context":     evt.Context,
		"content_id":  evt.ContentID,
		"severity":    evt.Severity,
		"rule":        evt.Rule,
		"text_hash":   evt.TextHash,
		"text_length": evt.TextLength,
	}
	if evt.Plugin != nil {
		fields["plugin"] = evt.Plugin.PluginName
		fields["decision"] = evt.Plugin.Decision
	}
	e.logger.WithFields(fields).Log(e.level, "moderation event")
	return nil
}

func (e *Exporter) Close() {}
