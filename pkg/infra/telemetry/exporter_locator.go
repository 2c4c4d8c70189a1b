package telemetry

import (
	"fmt"

	"github.com/NeuralTrust/ContentGuard/pkg/domain/telemetry"
)

// ExporterLocator holds prototype exporters by name and builds configured
// instances from them.
type ExporterLocator struct {
	exporters map[string]telemetry.Exporter
}

func NewExporterLocator(opts ...ExporterLocatorOption) *ExporterLocator {
	el := &ExporterLocator{
		exporters: make(map[string]telemetry.Exporter),
	}
	for _, opt := range opts {
		opt(el)
	}
	return el
}

func (p *ExporterLocator) GetExporter(cfg telemetry.ExporterConfig) (telemetry.Exporter, error) {
	base, ok := p.exporters[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("unknown exporter: %s", cfg.Name)
	}
	if err := base.ValidateConfig(cfg.Settings); err != nil {
		return nil, err
	}
	return base.WithSettings(cfg.Settings)
}

func (p *ExporterLocator) ValidateExporter(cfg telemetry.ExporterConfig) error {
	base, ok := p.exporters[cfg.Name]
	if !ok {
		return fmt.Errorf("unknown exporter: %s", cfg.Name)
	}
	return base.ValidateConfig(cfg.Settings)
}

// Build returns one configured exporter per entry. Exporters already built
// are closed when a later one fails.
func (p *ExporterLocator) Build(cfgs []telemetry.ExporterConfig) ([]telemetry.Exporter, error) {
	seen := make(map[string]struct{}, len(cfgs))
	built := make([]telemetry.Exporter, 0, len(cfgs))
	for _, cfg := range cfgs {
		if _, dup := seen[cfg.Name]; dup {
			closeAll(built)
			return nil, fmt.Errorf("duplicate exporter: %s", cfg.Name)
		}
		seen[cfg.Name] = struct{}{}
		exp, err := p.GetExporter(cfg)
		if err != nil {
			closeAll(built)
			return nil, fmt.Errorf("exporter %s: %w", cfg.Name, err)
		}
		built = append(built, exp)
	}
	return built, nil
}

func closeAll(exporters []telemetry.Exporter) {
	for _, e := range exporters {
		e.Close()
	}
}
