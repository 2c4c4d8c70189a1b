package telemetry

// ExporterConfig names an exporter and carries its raw settings, decoded by
// the exporter itself.
type ExporterConfig struct {
	Name     string                 `json:"name" mapstructure:"name"`
	Settings map[string]interface{} `json:"settings" mapstructure:"settings"`
}
