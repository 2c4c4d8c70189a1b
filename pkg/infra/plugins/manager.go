package plugins

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/pluginiface"
	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/types"
	"github.com/sirupsen/logrus"
)

type Manager interface {
	RegisterPlugin(plugin pluginiface.Plugin) error
	GetPlugin(name string) (pluginiface.Plugin, bool)
	ValidateChain(chain []pluginTypes.PluginConfig) error
	ExecuteStage(
		ctx context.Context,
		stage pluginTypes.Stage,
		chain []pluginTypes.PluginConfig,
		req *types.RequestContext,
		resp *types.ResponseContext,
		collector *metrics.Collector,
	) (*pluginTypes.PluginResponse, error)
}

type manager struct {
	mu      sync.RWMutex
	plugins map[string]pluginiface.Plugin
	logger  *logrus.Logger
}

func NewManager(logger *logrus.Logger, opts ...Option) Manager {
	m := &manager{
		plugins: make(map[string]pluginiface.Plugin),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *manager) RegisterPlugin(plugin pluginiface.Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := plugin.Name()
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("%w: %s", pluginTypes.ErrDuplicatePlugin, name)
	}
	m.plugins[name] = plugin
	return nil
}

func (m *manager) GetPlugin(name string) (pluginiface.Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plugins[name]
	return p, ok
}

// ValidateChain checks every plugin exists, runs on an allowed stage, has
// its required plugins in the chain and accepts its settings.
func (m *manager) ValidateChain(chain []pluginTypes.PluginConfig) error {
	names := make(map[string]struct{}, len(chain))
	for _, cfg := range chain {
		names[cfg.Name] = struct{}{}
	}

	for _, cfg := range chain {
		plugin, ok := m.GetPlugin(cfg.Name)
		if !ok {
			return fmt.Errorf("%w: %w: %s", pluginTypes.ErrPluginChainValidation, pluginTypes.ErrUnknownPlugin, cfg.Name)
		}
		if cfg.Stage != "" && !containsStage(plugin.AllowedStages(), cfg.Stage) {
			return fmt.Errorf("%w: %w: %s on %s", pluginTypes.ErrPluginChainValidation, pluginTypes.ErrStageNotAllowed, cfg.Name, cfg.Stage)
		}
		for _, required := range plugin.RequiredPlugins() {
			if _, ok := names[required]; !ok {
				return fmt.Errorf("%w: %w: %s requires %s", pluginTypes.ErrPluginChainValidation, pluginTypes.ErrRequiredPluginNotFound, cfg.Name, required)
			}
		}
		if err := plugin.ValidateConfig(cfg); err != nil {
			return fmt.Errorf("%w: %s: %w", pluginTypes.ErrPluginChainValidation, cfg.Name, err)
		}
	}
	return nil
}

// ExecuteStage runs the enabled plugins of the chain bound to stage, in
// priority order. The first plugin error stops the chain.
func (m *manager) ExecuteStage(
	ctx context.Context,
	stage pluginTypes.Stage,
	chain []pluginTypes.PluginConfig,
	req *types.RequestContext,
	resp *types.ResponseContext,
	collector *metrics.Collector,
) (*pluginTypes.PluginResponse, error) {
	configs := m.stageConfigs(stage, chain)
	if len(configs) == 0 {
		return nil, nil
	}
	req.Stage = stage

	var last *pluginTypes.PluginResponse
	for _, cfg := range configs {
		plugin, ok := m.GetPlugin(cfg.Name)
		if !ok {
			m.logger.WithField("plugin", cfg.Name).Warn("skipping unknown plugin")
			continue
		}
		pluginResp, err := NewPluginWrapper(plugin, collector).Execute(ctx, cfg, req, resp)
		if err != nil {
			var pluginErr *pluginTypes.PluginError
			if errors.As(err, &pluginErr) {
				return nil, pluginErr
			}
			m.logger.WithFields(logrus.Fields{
				"plugin": cfg.Name,
				"stage":  stage,
			}).WithError(err).Error("plugin execution failed")
			return nil, fmt.Errorf("plugin %s failed: %w", cfg.Name, err)
		}
		if pluginResp != nil {
			last = pluginResp
		}
		if resp != nil && resp.StopProcessing {
			break
		}
	}
	return last, nil
}

func (m *manager) stageConfigs(stage pluginTypes.Stage, chain []pluginTypes.PluginConfig) []pluginTypes.PluginConfig {
	var out []pluginTypes.PluginConfig
	for _, cfg := range chain {
		if !cfg.Enabled {
			continue
		}
		plugin, ok := m.GetPlugin(cfg.Name)
		if ok && len(plugin.Stages()) > 0 {
			if containsStage(plugin.Stages(), stage) {
				cfg.Stage = stage
				out = append(out, cfg)
			}
			continue
		}
		if cfg.Stage == stage {
			out = append(out, cfg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

func containsStage(stages []pluginTypes.Stage, stage pluginTypes.Stage) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}
