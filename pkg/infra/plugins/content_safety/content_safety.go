package content_safety

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/pluginiface"
	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/moderation"
	"github.com/NeuralTrust/ContentGuard/pkg/pluginutils"
	"github.com/NeuralTrust/ContentGuard/pkg/types"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

const (
	PluginName = "content_safety"

	defaultStatusCode   = http.StatusForbidden
	defaultErrorMessage = "Content violates community guidelines"
)

type Action string

const (
	Block    Action = "block"
	Sanitize Action = "sanitize"
)

const (
	DecisionAllow    = "allow"
	DecisionFlag     = "flag"
	DecisionBlock    = "block"
	DecisionSanitize = "sanitize"
)

type Config struct {
	Mode         string `mapstructure:"mode"`
	Action       Action `mapstructure:"action"`
	MinSeverity  string `mapstructure:"min_severity"`
	StatusCode   int    `mapstructure:"status_code"`
	ErrorMessage string `mapstructure:"error_message"`
	MappingField string `mapstructure:"mapping_field"`
	Placeholder  string `mapstructure:"placeholder"`
}

type settings struct {
	Config
	minSeverity moderation.Severity
	segments    []pluginutils.Segment
}

type ContentSafetyPlugin struct {
	*pluginTypes.BasePlugin
	logger *logrus.Logger
	engine *moderation.Engine
}

func NewContentSafetyPlugin(logger *logrus.Logger, engine *moderation.Engine) pluginiface.Plugin {
	if engine == nil {
		engine = moderation.NewEngine()
	}
	return &ContentSafetyPlugin{
		BasePlugin: pluginTypes.NewBasePlugin(),
		logger:     logger,
		engine:     engine,
	}
}

func (p *ContentSafetyPlugin) Name() string {
	return PluginName
}

func (p *ContentSafetyPlugin) RequiredPlugins() []string {
	var requiredPlugins []string
	return requiredPlugins
}

func (p *ContentSafetyPlugin) Stages() []pluginTypes.Stage {
	return []pluginTypes.Stage{}
}

func (p *ContentSafetyPlugin) AllowedStages() []pluginTypes.Stage {
	return []pluginTypes.Stage{pluginTypes.PreRequest, pluginTypes.PostRequest}
}

func (p *ContentSafetyPlugin) ValidateConfig(config pluginTypes.PluginConfig) error {
	_, err := p.decode(config)
	return err
}

func (p *ContentSafetyPlugin) decode(config pluginTypes.PluginConfig) (*settings, error) {
	var cfg Config
	if err := mapstructure.Decode(config.Settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %v", err)
	}
	if err := p.ValidateMode(cfg.Mode); err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = pluginTypes.ModeEnforce
	}

	switch cfg.Action {
	case "":
		cfg.Action = Block
	case Block, Sanitize:
	default:
		return nil, fmt.Errorf("invalid action: %s", cfg.Action)
	}

	if cfg.MinSeverity == "" {
		cfg.MinSeverity = moderation.SeverityBlock.String()
	}
	minSeverity, err := moderation.ParseSeverity(cfg.MinSeverity)
	if err != nil {
		return nil, fmt.Errorf("invalid min_severity: %w", err)
	}
	if minSeverity == moderation.SeveritySafe {
		return nil, fmt.Errorf("min_severity must be BLUR, WARNING or BLOCK")
	}

	if cfg.StatusCode == 0 {
		cfg.StatusCode = defaultStatusCode
	}
	if cfg.StatusCode < 100 || cfg.StatusCode > 599 {
		return nil, fmt.Errorf("invalid status code: %d", cfg.StatusCode)
	}
	if cfg.ErrorMessage == "" {
		cfg.ErrorMessage = defaultErrorMessage
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = p.engine.Placeholder()
	}

	s := &settings{Config: cfg, minSeverity: minSeverity}
	if cfg.MappingField != "" {
		segments, err := pluginutils.ParseMappingField(cfg.MappingField)
		if err != nil {
			return nil, err
		}
		s.segments = segments
	}
	return s, nil
}

func (p *ContentSafetyPlugin) Execute(
	ctx context.Context,
	pluginConfig pluginTypes.PluginConfig,
	req *types.RequestContext,
	resp *types.ResponseContext,
	evtCtx *metrics.EventContext,
) (*pluginTypes.PluginResponse, error) {
	cfg, err := p.decode(pluginConfig)
	if err != nil {
		return nil, &pluginTypes.PluginError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Failed to decode plugin configuration",
			Err:        err,
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := req.Body
	if req.Stage == pluginTypes.PostRequest && resp != nil {
		body = resp.Body
	}

	data := &ContentSafetyData{
		Mode:        cfg.Mode,
		Action:      string(cfg.Action),
		MinSeverity: cfg.minSeverity.String(),
		Decision:    DecisionAllow,
	}
	defer func() {
		evtCtx.SetExtras(data)
		evtCtx.SetDecision(data.Mode, data.Decision)
	}()

	if len(body) == 0 {
		return okResponse(), nil
	}

	root, parseErr := fastjson.ParseBytes(body)
	var leaves []pluginutils.StringLeaf
	switch {
	case parseErr != nil:
		// non-JSON bodies are inspected as plain text below
	case cfg.segments != nil:
		if leaf, ok := pluginutils.LookupStringLeaf(root, cfg.segments); ok {
			leaves = []pluginutils.StringLeaf{leaf}
		}
	default:
		leaves = pluginutils.CollectStringLeaves(root)
	}

	var offending []int
	if parseErr != nil {
		data.Inspected = 1
		if f, hit := p.inspect("", string(body), cfg.minSeverity); hit {
			data.Findings = append(data.Findings, f)
			offending = append(offending, -1)
		}
	} else {
		data.Inspected = len(leaves)
		for i, leaf := range leaves {
			if f, hit := p.inspect(leaf.Path, leaf.Text, cfg.minSeverity); hit {
				data.Findings = append(data.Findings, f)
				offending = append(offending, i)
			}
		}
	}

	if len(offending) == 0 {
		return okResponse(), nil
	}
	data.Flagged = true

	if cfg.Mode == pluginTypes.ModeObserve {
		data.Decision = DecisionFlag
		p.logger.WithFields(logrus.Fields{
			"plugin":   PluginName,
			"findings": len(data.Findings),
		}).Info("content flagged in observe mode")
		return okResponse(), nil
	}

	if cfg.Action == Block {
		data.Decision = DecisionBlock
		evtCtx.SetError(errors.New(cfg.ErrorMessage))
		return nil, &pluginTypes.PluginError{
			StatusCode: cfg.StatusCode,
			Message:    cfg.ErrorMessage,
			Err:        fmt.Errorf("unsafe content detected in %d location(s)", len(offending)),
		}
	}

	data.Decision = DecisionSanitize
	sanitized := p.sanitize(root, leaves, offending, cfg.Placeholder)
	if req.Stage == pluginTypes.PostRequest && resp != nil {
		resp.Body = sanitized
	} else {
		req.Body = sanitized
	}
	return &pluginTypes.PluginResponse{
		StatusCode: http.StatusOK,
		Message:    "Content sanitized",
		Body:       sanitized,
	}, nil
}

func (p *ContentSafetyPlugin) inspect(path, text string, min moderation.Severity) (Finding, bool) {
	v := p.engine.Classify(text)
	if v.Severity == moderation.SeveritySafe || !v.Severity.AtLeast(min) {
		return Finding{}, false
	}
	return Finding{
		Path:       path,
		Severity:   v.Severity.String(),
		Reason:     v.Reason,
		Rule:       v.Rule,
		TextLength: len(text),
	}, true
}

// sanitize replaces offending leaves with the placeholder. An index of -1
// or a root string leaf means the whole body is replaced.
func (p *ContentSafetyPlugin) sanitize(
	root *fastjson.Value,
	leaves []pluginutils.StringLeaf,
	offending []int,
	placeholder string,
) []byte {
	var a fastjson.Arena
	replacement := a.NewString(placeholder)
	for _, idx := range offending {
		if idx < 0 {
			return []byte(placeholder)
		}
		if leaves[idx].IsRoot() {
			return replacement.MarshalTo(nil)
		}
		leaves[idx].Replace(replacement)
	}
	return root.MarshalTo(nil)
}

func okResponse() *pluginTypes.PluginResponse {
	return &pluginTypes.PluginResponse{
		StatusCode: http.StatusOK,
		Message:    "Request processed successfully",
	}
}
