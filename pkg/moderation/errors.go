package moderation

import "errors"

var (
	ErrInvalidPattern  = errors.New("invalid moderation pattern")
	ErrUnknownCategory = errors.New("unknown moderation category")
	ErrUnknownSeverity = errors.New("unknown severity")
)
