package request

import (
	"errors"
	"fmt"
	"strings"
)

const maxLabelLength = 128

// ClassifyRequest carries one text. Text is decoded loosely: a missing,
// null or non-string value is treated as absent content.
type ClassifyRequest struct {
	Text      interface{} `json:"text"`
	Context   string      `json:"context"`
	ContentID string      `json:"content_id,omitempty"`
}

func (r *ClassifyRequest) Validate() error {
	if err := validateLabel("context", r.Context); err != nil {
		return err
	}
	if err := validateLabel("content_id", r.ContentID); err != nil {
		return err
	}
	return nil
}

// TextValue returns the text when it was sent as a JSON string.
func (r *ClassifyRequest) TextValue() *string {
	if s, ok := r.Text.(string); ok {
		return &s
	}
	return nil
}

type BatchRequest struct {
	Items []ClassifyRequest `json:"items"`
}

func (r *BatchRequest) Validate(maxItems int) error {
	if len(r.Items) == 0 {
		return errors.New("items is required")
	}
	if maxItems > 0 && len(r.Items) > maxItems {
		return fmt.Errorf("items cannot contain more than %d entries", maxItems)
	}
	for i := range r.Items {
		if err := r.Items[i].Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

func validateLabel(field, value string) error {
	if len(value) > maxLabelLength {
		return fmt.Errorf("%s cannot be longer than %d characters", field, maxLabelLength)
	}
	if strings.Contains(value, ":") {
		return fmt.Errorf("%s cannot contain ':'", field)
	}
	return nil
}
