package mocks

import (
	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics/metric_events"
	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Shutdown() {
	m.Called()
}

func (m *Worker) StartWorkers(n int) {
	m.Called(n)
}

func (m *Worker) Process(events ...*metric_events.Event) {
	args := make([]interface{}, len(events))
	for i, evt := range events {
		args[i] = evt
	}
	m.Called(args...)
}
