package request_size_limiter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/metrics"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/pluginiface"
	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/types"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

const (
	PluginName = "request_size_limiter"

	defaultPayloadSize = 1
	defaultMaxChars    = 100000
)

type SizeUnit string

const (
	Bytes     SizeUnit = "bytes"
	Kilobytes SizeUnit = "kilobytes"
	Megabytes SizeUnit = "megabytes"
)

var errLimitExceeded = errors.New("request size limit exceeded")

type Config struct {
	AllowedPayloadSize   int      `mapstructure:"allowed_payload_size"`
	SizeUnit             SizeUnit `mapstructure:"size_unit"`
	MaxCharsPerRequest   int      `mapstructure:"max_chars_per_request"`
	RequireContentLength bool     `mapstructure:"require_content_length"`
}

// maxBytes converts the configured payload size to bytes.
func (c Config) maxBytes() int {
	switch c.SizeUnit {
	case Bytes:
		return c.AllowedPayloadSize
	case Kilobytes:
		return c.AllowedPayloadSize * 1024
	default:
		return c.AllowedPayloadSize * 1024 * 1024
	}
}

// RequestSizeLimiterPlugin rejects payloads too large to be worth
// classifying. Characters are counted as runes.
type RequestSizeLimiterPlugin struct {
	logger *logrus.Logger
}

func NewRequestSizeLimiterPlugin(logger *logrus.Logger) pluginiface.Plugin {
	return &RequestSizeLimiterPlugin{logger: logger}
}

func (p *RequestSizeLimiterPlugin) Name() string {
	return PluginName
}

func (p *RequestSizeLimiterPlugin) RequiredPlugins() []string {
	var requiredPlugins []string
	return requiredPlugins
}

func (p *RequestSizeLimiterPlugin) Stages() []pluginTypes.Stage {
	return []pluginTypes.Stage{pluginTypes.PreRequest}
}

func (p *RequestSizeLimiterPlugin) AllowedStages() []pluginTypes.Stage {
	return []pluginTypes.Stage{pluginTypes.PreRequest}
}

func (p *RequestSizeLimiterPlugin) ValidateConfig(config pluginTypes.PluginConfig) error {
	_, err := decode(config)
	return err
}

func decode(config pluginTypes.PluginConfig) (Config, error) {
	var cfg Config
	if err := mapstructure.Decode(config.Settings, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %v", err)
	}
	switch cfg.SizeUnit {
	case "":
		cfg.SizeUnit = Megabytes
	case Bytes, Kilobytes, Megabytes:
	default:
		return cfg, fmt.Errorf("size_unit must be one of: bytes, kilobytes, megabytes")
	}
	if cfg.AllowedPayloadSize < 0 {
		return cfg, fmt.Errorf("allowed_payload_size cannot be negative")
	}
	if cfg.AllowedPayloadSize == 0 {
		cfg.AllowedPayloadSize = defaultPayloadSize
	}
	if cfg.MaxCharsPerRequest < 0 {
		return cfg, fmt.Errorf("max_chars_per_request cannot be negative")
	}
	if cfg.MaxCharsPerRequest == 0 {
		cfg.MaxCharsPerRequest = defaultMaxChars
	}
	return cfg, nil
}

func (p *RequestSizeLimiterPlugin) Execute(
	_ context.Context,
	pluginConfig pluginTypes.PluginConfig,
	req *types.RequestContext,
	_ *types.ResponseContext,
	evtCtx *metrics.EventContext,
) (*pluginTypes.PluginResponse, error) {
	cfg, err := decode(pluginConfig)
	if err != nil {
		return nil, &pluginTypes.PluginError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Failed to decode plugin configuration",
			Err:        err,
		}
	}

	if cfg.RequireContentLength && len(req.Headers["Content-Length"]) == 0 {
		evtCtx.SetError(errors.New("missing content length"))
		return nil, &pluginTypes.PluginError{
			StatusCode: http.StatusLengthRequired,
			Message:    "Content-Length header is required",
		}
	}

	data := RequestSizeLimiterData{
		RequestSizeBytes:   len(req.Body),
		MaxSizeBytes:       cfg.maxBytes(),
		MaxCharsPerRequest: cfg.MaxCharsPerRequest,
	}
	defer evtCtx.SetExtras(&data)

	if data.RequestSizeBytes > data.MaxSizeBytes {
		data.LimitExceeded = true
		data.ExceededType = "bytes"
		return nil, p.reject(evtCtx, logrus.Fields{
			"request_size_bytes": data.RequestSizeBytes,
			"max_size_bytes":     data.MaxSizeBytes,
		}, fmt.Sprintf("Request size limit exceeded. Received: %d bytes", data.RequestSizeBytes))
	}

	data.RequestSizeChars = utf8.RuneCount(req.Body)
	if data.RequestSizeChars > data.MaxCharsPerRequest {
		data.LimitExceeded = true
		data.ExceededType = "chars"
		return nil, p.reject(evtCtx, logrus.Fields{
			"char_count":            data.RequestSizeChars,
			"max_chars_per_request": data.MaxCharsPerRequest,
		}, fmt.Sprintf("Character limit exceeded. Received: %d characters", data.RequestSizeChars))
	}

	return &pluginTypes.PluginResponse{
		StatusCode: http.StatusOK,
		Message:    "Request size within limits",
	}, nil
}

func (p *RequestSizeLimiterPlugin) reject(evtCtx *metrics.EventContext, fields logrus.Fields, message string) error {
	p.logger.WithFields(fields).Warn("request size limit exceeded")
	evtCtx.SetError(errLimitExceeded)
	return &pluginTypes.PluginError{
		StatusCode: http.StatusRequestEntityTooLarge,
		Message:    message,
		Err:        errLimitExceeded,
	}
}
