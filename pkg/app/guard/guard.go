package guard

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/plugins"
	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/types"
	"github.com/sirupsen/logrus"
)

// Input is an arbitrary payload submitted for inspection.
type Input struct {
	RequestID string
	Method    string
	Path      string
	IP        string
	Headers   map[string][]string
	Body      []byte
}

type Result struct {
	TraceID  string `json:"trace_id"`
	Modified bool   `json:"modified"`
	Body     []byte `json:"-"`
}

// Guard runs the configured plugin chain over payloads.
type Guard interface {
	Inspect(ctx context.Context, in Input) (*Result, error)
}

type guard struct {
	logger       *logrus.Logger
	manager      plugins.Manager
	worker       metrics.Worker
	chain        []pluginTypes.PluginConfig
	ignoreErrors bool
}

func NewGuard(
	logger *logrus.Logger,
	manager plugins.Manager,
	worker metrics.Worker,
	chain []pluginTypes.PluginConfig,
	ignoreErrors bool,
) Guard {
	return &guard{
		logger:       logger,
		manager:      manager,
		worker:       worker,
		chain:        chain,
		ignoreErrors: ignoreErrors,
	}
}

// Inspect returns the payload as rewritten by the chain. A plugin rejecting
// the payload surfaces as a *pluginTypes.PluginError.
func (g *guard) Inspect(ctx context.Context, in Input) (*Result, error) {
	collector := metrics.NewCollector(metrics.WithTraceID(in.RequestID))
	defer func() {
		if events := collector.Flush(); len(events) > 0 {
			g.worker.Process(events...)
		}
	}()

	req := &types.RequestContext{
		Context:    ctx,
		RequestID:  in.RequestID,
		Method:     in.Method,
		Path:       in.Path,
		IP:         in.IP,
		Headers:    in.Headers,
		Body:       in.Body,
		ReceivedAt: time.Now(),
	}
	resp := &types.ResponseContext{
		Context: ctx,
		Headers: make(map[string][]string),
	}

	result := &Result{TraceID: collector.TraceID(), Body: in.Body}

	if _, err := g.manager.ExecuteStage(ctx, pluginTypes.PreRequest, g.chain, req, resp, collector); err != nil {
		var pluginErr *pluginTypes.PluginError
		if errors.As(err, &pluginErr) {
			g.logger.WithFields(logrus.Fields{
				"trace_id":    result.TraceID,
				"status_code": pluginErr.StatusCode,
			}).Warn("payload rejected by plugin chain")
			return nil, pluginErr
		}
		if !g.ignoreErrors {
			return nil, err
		}
		g.logger.WithError(err).WithField("trace_id", result.TraceID).Warn("ignoring plugin chain failure")
		return result, nil
	}

	result.Body = req.Body
	result.Modified = !bytes.Equal(req.Body, in.Body)
	return result, nil
}
