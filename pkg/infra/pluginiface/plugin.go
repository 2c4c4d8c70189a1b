package pluginiface

import (
	"context"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics"
	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/types"
)

// Plugin inspects or rewrites a payload at one stage of the chain.
//
// Execute may rewrite req.Body (or resp.Body at PostRequest) and returns a
// *pluginTypes.PluginError to reject the payload. Whatever the plugin
// decided goes on evtCtx.
type Plugin interface {
	Name() string
	// Stages pins the plugin to fixed stages. Empty means the chain entry
	// decides.
	Stages() []pluginTypes.Stage
	AllowedStages() []pluginTypes.Stage
	RequiredPlugins() []string
	ValidateConfig(config pluginTypes.PluginConfig) error
	Execute(
		ctx context.Context,
		cfg pluginTypes.PluginConfig,
		req *types.RequestContext,
		resp *types.ResponseContext,
		evtCtx *metrics.EventContext,
	) (*pluginTypes.PluginResponse, error)
}
