package metrics

import (
	"sync"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
	"github.com/google/uuid"
)

// Collector accumulates the events produced while serving one request so
// they can be handed to the worker in a single batch.
type Collector struct {
	traceID string
	params  map[string]string
	mu      sync.Mutex
	events  []*metric_events.Event
}

func NewCollector(opts ...Option) *Collector {
	o := &collectorOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.traceID == "" {
		o.traceID = uuid.New().String()
	}
	return &Collector{
		traceID: o.traceID,
		params:  o.params,
	}
}

func (c *Collector) TraceID() string {
	return c.traceID
}

func (c *Collector) Emit(evt *metric_events.Event) {
	if evt == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	evt.TraceID = c.traceID
	if len(c.params) > 0 {
		evt.Params = c.params
	}
	c.events = append(c.events, evt)
}

func (c *Collector) Flush() []*metric_events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*metric_events.Event, len(c.events))
	copy(out, c.events)
	c.events = nil
	return out
}
