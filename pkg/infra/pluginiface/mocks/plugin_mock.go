package mocks

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics"
	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/types"
	"github.com/stretchr/testify/mock"
)

type Plugin struct {
	mock.Mock
}

func (m *Plugin) Name() string {
	return m.Called().String(0)
}

func (m *Plugin) Stages() []pluginTypes.Stage {
	args := m.Called()
	stages, _ := args.Get(0).([]pluginTypes.Stage)
	return stages
}

func (m *Plugin) AllowedStages() []pluginTypes.Stage {
	args := m.Called()
	stages, _ := args.Get(0).([]pluginTypes.Stage)
	return stages
}

func (m *Plugin) Execute(
	ctx context.Context,
	cfg pluginTypes.PluginConfig,
	req *types.RequestContext,
	resp *types.ResponseContext,
	evtCtx *metrics.EventContext,
) (*pluginTypes.PluginResponse, error) {
	args := m.Called(ctx, cfg, req, resp, evtCtx)
	pluginResp, ok := args.Get(0).(*pluginTypes.PluginResponse)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *types.PluginResponse, got %T", args.Get(0))
	}
	return pluginResp, args.Error(1)
}

func (m *Plugin) ValidateConfig(config pluginTypes.PluginConfig) error {
	return m.Called(config).Error(0)
}

func (m *Plugin) RequiredPlugins() []string {
	args := m.Called()
	required, _ := args.Get(0).([]string)
	return required
}
