package telemetry

import (
	"context"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
)

type Exporter interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	WithSettings(settings map[string]interface{}) (Exporter, error)
	Handle(ctx context.Context, evt *metric_events.Event) error
	Close()
}
