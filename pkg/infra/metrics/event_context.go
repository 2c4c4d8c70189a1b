package metrics

import (
	"sync"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
)

// EventContext lets a plugin describe what it did during one execution.
// It is safe for concurrent use.
type EventContext struct {
	PluginName string
	Stage      string
	data       *metric_events.PluginDataEvent
	collector  *Collector
	mu         sync.Mutex
}

// NewEventContext creates a context for one plugin run. collector may be nil,
// in which case Publish is a no-op.
func NewEventContext(pluginName, stage string, collector *Collector) *EventContext {
	return &EventContext{
		PluginName: pluginName,
		Stage:      stage,
		data: &metric_events.PluginDataEvent{
			PluginName: pluginName,
			Stage:      stage,
		},
		collector: collector,
	}
}

func (e *EventContext) SetExtras(extras interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Extras = extras
}

func (e *EventContext) SetDecision(mode, decision string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Mode = mode
	e.data.Decision = decision
}

func (e *EventContext) SetError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.Error = true
	e.data.ErrorMessage = err.Error()
}

func (e *EventContext) SetStatusCode(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data.StatusCode = code
}

// Data returns a copy of the recorded plugin data.
func (e *EventContext) Data() metric_events.PluginDataEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.data
}

func (e *EventContext) Publish() {
	if e.collector == nil {
		return
	}
	e.mu.Lock()
	data := *e.data
	e.mu.Unlock()

	evt := metric_events.NewPluginEvent()
	evt.Plugin = &data
	e.collector.Emit(evt)
}
