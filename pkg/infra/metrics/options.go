package metrics

type collectorOptions struct {
	traceID string
	params  map[string]string
}

type Option func(*collectorOptions)

func WithTraceID(traceID string) Option {
	return func(o *collectorOptions) {
		o.traceID = traceID
	}
}

// WithParam attaches a key/value pair to every event emitted through the
// collector.
func WithParam(key, value string) Option {
	return func(o *collectorOptions) {
		if o.params == nil {
			o.params = make(map[string]string)
		}
		o.params[key] = value
	}
}
