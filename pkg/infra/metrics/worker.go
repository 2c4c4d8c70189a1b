package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/NeuralTrust/ContentGuard/pkg/domain/telemetry"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	defaultQueueSize = 1000
	exportTimeout    = 5 * time.Second
)

type Worker interface {
	Shutdown()
	StartWorkers(n int)
	Process(events ...*metric_events.Event)
}

type worker struct {
	logger    *logrus.Logger
	exporters []telemetry.Exporter
	taskChan  chan func()
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
}

// NewWorker builds an asynchronous dispatcher that records prometheus
// metrics and hands flagged verdicts and plugin events to exporters.
func NewWorker(logger *logrus.Logger, exporters ...telemetry.Exporter) Worker {
	return &worker{
		logger:    logger,
		exporters: exporters,
		taskChan:  make(chan func(), defaultQueueSize),
	}
}

func (m *worker) StartWorkers(n int) {
	if n <= 0 {
		n = 1
	}
	m.logger.WithField("workers", n).Info("starting metrics workers")
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for task := range m.taskChan {
				m.run(task)
			}
		}()
	}
}

// Shutdown stops accepting events, drains the queue and closes exporters.
func (m *worker) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.taskChan)
	m.mu.Unlock()

	m.logger.Info("shutting down metrics workers")
	m.wg.Wait()
	for _, exp := range m.exporters {
		exp.Close()
	}
	m.logger.Info("metrics workers stopped")
}

func (m *worker) Process(events ...*metric_events.Event) {
	for _, evt := range events {
		if evt == nil {
			continue
		}
		evt := evt
		m.enqueueTask(func() {
			m.registryMetricsToPrometheus(evt)
		}, evt)
		if len(m.exporters) > 0 && shouldExport(evt) {
			m.enqueueTask(func() {
				m.registryMetricsToExporters(evt)
			}, evt)
		}
	}
}

func shouldExport(evt *metric_events.Event) bool {
	return evt.IsFlagged() || evt.IsTypePlugin()
}

func (m *worker) registryMetricsToPrometheus(evt *metric_events.Event) {
	switch {
	case evt.IsTypeVerdict():
		prometheus.VerdictsTotal.WithLabelValues(evt.Severity, evt.Context).Inc()
		if evt.Rule != "" {
			prometheus.RuleHitsTotal.WithLabelValues(evt.Rule).Inc()
		}
		prometheus.ClassifyLatency.WithLabelValues(evt.Source).Observe(evt.LatencyMs)
	case evt.IsTypePlugin() && evt.Plugin != nil:
		decision := evt.Plugin.Decision
		if decision == "" && evt.Plugin.Error {
			decision = "error"
		}
		prometheus.PluginDecisionsTotal.WithLabelValues(evt.Plugin.PluginName, evt.Plugin.Mode, decision).Inc()
	}
}

func (m *worker) registryMetricsToExporters(evt *metric_events.Event) {
	var failedExporters []string
	for _, exporter := range m.exporters {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		err := exporter.Handle(ctx, evt)
		cancel()
		if err != nil {
			m.logger.WithFields(logrus.Fields{
				"exporter": exporter.Name(),
				"event_id": evt.ID,
				"type":     evt.Type,
			}).WithError(err).Error("exporter failed")
			failedExporters = append(failedExporters, exporter.Name())
		}
	}
	if len(failedExporters) > 0 {
		m.logger.WithField("failedExporters", failedExporters).
			Warnf("%d exporters failed to handle event", len(failedExporters))
	}
}

func (m *worker) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.WithField("panic", fmt.Sprint(r)).Error("metrics task panicked")
		}
	}()
	task()
}

func (m *worker) enqueueTask(task func(), evt *metric_events.Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	select {
	case m.taskChan <- task:
	default:
		m.logger.WithFields(logrus.Fields{
			"event_id": evt.ID,
			"type":     evt.Type,
		}).Warn("taskChan is full, dropping metrics task")
	}
}
