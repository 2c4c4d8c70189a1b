package types

import (
	"context"
	"time"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
)

// RequestContext is the inbound payload as seen by the plugin chain.
// Plugins rewrite Body in place to sanitize it.
type RequestContext struct {
	Context    context.Context
	RequestID  string
	Method     string
	Path       string
	IP         string
	Headers    map[string][]string
	Body       []byte
	Stage      types.Stage
	ReceivedAt time.Time
}

// ResponseContext holds the body inspected at PostRequest. A plugin sets
// StopProcessing to skip the rest of the chain.
type ResponseContext struct {
	Context        context.Context
	Headers        map[string][]string
	Body           []byte
	StatusCode     int
	StopProcessing bool
}
