package metric_events

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

const (
	VerdictType = "verdict"
	PluginType  = "plugin"

	SourceAPI    = "api"
	SourceBatch  = "batch"
	SourcePlugin = "plugin"
)

// Event is the telemetry record emitted for every verdict. Raw text never
// leaves the process: only its hash and length are recorded.
type Event struct {
	ID         string             `json:"id"`
	TraceID    string             `json:"trace_id,omitempty"`
	Type       string             `json:"type"`
	Source     string             `json:"source"`
	Context    string             `json:"context,omitempty"`
	ContentID  string             `json:"content_id,omitempty"`
	Severity   string             `json:"severity"`
	Reason     string             `json:"reason"`
	Rule       string             `json:"rule,omitempty"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Flags      []string           `json:"flags,omitempty"`
	TextHash   string             `json:"text_hash,omitempty"`
	TextLength int                `json:"text_length"`
	LatencyMs  float64            `json:"latency_ms"`
	Timestamp  int64              `json:"timestamp"`
	Params     map[string]string  `json:"params,omitempty"`

	Plugin *PluginDataEvent `json:"plugin,omitempty"`
}

type PluginDataEvent struct {
	PluginName   string      `json:"plugin_name"`
	Stage        string      `json:"stage"`
	Mode         string      `json:"mode,omitempty"`
	Decision     string      `json:"decision,omitempty"`
	StatusCode   int         `json:"status_code,omitempty"`
	Error        bool        `json:"error"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Extras       interface{} `json:"extras,omitempty"`
}

func NewVerdictEvent(source string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      VerdictType,
		Source:    source,
		Timestamp: time.Now().Unix(),
	}
}

func NewPluginEvent() *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      PluginType,
		Source:    SourcePlugin,
		Timestamp: time.Now().Unix(),
	}
}

func (evt *Event) IsTypePlugin() bool {
	return evt.Type == PluginType
}

func (evt *Event) IsTypeVerdict() bool {
	return evt.Type == VerdictType
}

// IsFlagged reports whether the event carries a non-SAFE verdict.
func (evt *Event) IsFlagged() bool {
	return evt.IsTypeVerdict() && evt.Severity != "" && evt.Severity != "SAFE"
}

// HashText returns the hex sha256 of text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
