package http

const (
	ErrInvalidJsonPayload = "invalid JSON payload"
	ErrEmptyPayload       = "payload is empty"
	ErrInternal           = "internal server error"
)
