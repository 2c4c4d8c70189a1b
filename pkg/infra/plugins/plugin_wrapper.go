package plugins

import (
	"context"
	"errors"
	"net/http"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/pluginiface"
	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/types"
)

// PluginWrapper runs a single plugin and publishes one plugin event per run
// into the request's collector, whatever the outcome.
type PluginWrapper struct {
	Plugin    pluginiface.Plugin
	Collector *metrics.Collector
}

func NewPluginWrapper(plugin pluginiface.Plugin, collector *metrics.Collector) *PluginWrapper {
	return &PluginWrapper{
		Plugin:    plugin,
		Collector: collector,
	}
}

// Execute stamps rejections with the plugin name. A canceled context is
// reported as a pass.
func (w *PluginWrapper) Execute(
	ctx context.Context,
	cfg pluginTypes.PluginConfig,
	req *types.RequestContext,
	resp *types.ResponseContext,
) (*pluginTypes.PluginResponse, error) {
	evtCtx := metrics.NewEventContext(cfg.Name, string(req.Stage), w.Collector)
	defer evtCtx.Publish()

	pluginResp, err := w.Plugin.Execute(ctx, cfg, req, resp, evtCtx)
	switch {
	case err == nil:
		code := http.StatusOK
		if pluginResp != nil && pluginResp.StatusCode != 0 {
			code = pluginResp.StatusCode
		}
		evtCtx.SetStatusCode(code)
		return pluginResp, nil
	case errors.Is(err, context.Canceled):
		evtCtx.SetStatusCode(http.StatusOK)
		return nil, nil
	}

	var pluginErr *pluginTypes.PluginError
	if errors.As(err, &pluginErr) {
		if pluginErr.Plugin == "" {
			pluginErr.Plugin = cfg.Name
		}
		evtCtx.SetStatusCode(pluginErr.StatusCode)
	} else {
		evtCtx.SetStatusCode(http.StatusInternalServerError)
	}
	evtCtx.SetError(err)
	return nil, err
}
