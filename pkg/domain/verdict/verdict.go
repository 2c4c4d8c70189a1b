package verdict

import (
	"errors"
	"strings"
	"time"

	"github.com/NeuralTrust/ContentGuard/pkg/moderation"
)

const EntityType = "verdict"

var (
	ErrMissingContext   = errors.New("context is required")
	ErrMissingContentID = errors.New("content_id is required")
	ErrInvalidKeyPart   = errors.New("context and content_id cannot contain ':'")
)

// Record is a verdict stored next to the content it was computed for, so
// presentation layers can act on it without classifying again.
type Record struct {
	ID          string             `json:"id"`
	Context     string             `json:"context"`
	ContentID   string             `json:"content_id"`
	Verdict     moderation.Verdict `json:"verdict"`
	TextHash    string             `json:"text_hash,omitempty"`
	ProcessedAt time.Time          `json:"processed_at"`
}

func (r *Record) Validate() error {
	return ValidateKey(r.Context, r.ContentID)
}

// ValidateKey checks the parts that address a stored record.
func ValidateKey(context, contentID string) error {
	if strings.TrimSpace(context) == "" {
		return ErrMissingContext
	}
	if strings.TrimSpace(contentID) == "" {
		return ErrMissingContentID
	}
	if strings.Contains(context, ":") || strings.Contains(contentID, ":") {
		return ErrInvalidKeyPart
	}
	return nil
}
