package types

import (
	"errors"
	"fmt"
)

var (
	ErrRequiredPluginNotFound = errors.New("plugin is required")
	ErrUnknownPlugin          = errors.New("unknown plugin")
	ErrDuplicatePlugin        = errors.New("plugin already registered")
	ErrPluginChainValidation  = errors.New("failed to validate plugin chain")
	ErrStageNotAllowed        = errors.New("stage not allowed for plugin")
)

// Stage is the point of the payload lifecycle a plugin runs at. Inbound
// payloads are inspected at PreRequest; PostRequest sees ResponseContext.Body.
type Stage string

const (
	PreRequest  Stage = "pre_request"
	PostRequest Stage = "post_request"
)

const (
	ModeObserve = "observe"
	ModeEnforce = "enforce"
)

// PluginConfig is one entry of a plugin chain. Settings are decoded by the
// plugin itself.
type PluginConfig struct {
	Name     string                 `json:"name" mapstructure:"name"`
	Enabled  bool                   `json:"enabled" mapstructure:"enabled"`
	Stage    Stage                  `json:"stage" mapstructure:"stage"`
	Priority int                    `json:"priority" mapstructure:"priority"`
	Settings map[string]interface{} `json:"settings" mapstructure:"settings"`
}

// PluginError rejects the payload. StatusCode and Message are returned to
// the caller as is; Err stays internal.
type PluginError struct {
	Plugin     string `json:"plugin,omitempty"`
	StatusCode int    `json:"code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *PluginError) Error() string {
	if e.Plugin == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Plugin, e.Message)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

type PluginResponse struct {
	StatusCode int
	Message    string
	Body       []byte
}

type BasePlugin struct{}

func NewBasePlugin() *BasePlugin {
	return &BasePlugin{}
}

// ValidateMode accepts an empty mode, which plugins default to enforce.
func (p *BasePlugin) ValidateMode(mode string) error {
	switch mode {
	case "", ModeObserve, ModeEnforce:
		return nil
	}
	return fmt.Errorf("mode must be either %s or %s, got %q", ModeObserve, ModeEnforce, mode)
}
