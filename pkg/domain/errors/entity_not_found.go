package domain

import (
	"errors"
	"fmt"
)

var ErrEntityNotFound *notFoundError

type notFoundError struct {
	EntityType string
	ID         string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.EntityType, e.ID)
}

func NewNotFoundError(entityType, id string) error {
	return &notFoundError{
		EntityType: entityType,
		ID:         id,
	}
}

// IsNotFound reports whether err, or any error it wraps, is a not-found error.
func IsNotFound(err error) bool {
	return errors.As(err, &ErrEntityNotFound)
}
