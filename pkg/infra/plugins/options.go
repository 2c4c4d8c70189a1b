package plugins

import "github.com/NeuralTrust/ContentGuard/pkg/infra/pluginiface"

// Option is a functional option for configuring the Manager.
type Option func(*manager)

// WithPlugins registers plugins at construction. Duplicates are ignored
// with a warning.
func WithPlugins(plugins ...pluginiface.Plugin) Option {
	return func(m *manager) {
		for _, p := range plugins {
			if err := m.RegisterPlugin(p); err != nil {
				m.logger.WithError(err).Warn("failed to register plugin")
			}
		}
	}
}
