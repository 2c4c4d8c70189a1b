package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport is the ordered set of middlewares mounted on /api/v1.
type Transport struct {
	Middlewares []Middleware
}

func NewTransport(middlewares ...Middleware) *Transport {
	t := &Transport{}
	for _, m := range middlewares {
		t.RegisterMiddleware(m)
	}
	return t
}

// GetMiddlewares returns the handlers in registration order, typed for
// fiber's variadic Use.
func (t *Transport) GetMiddlewares() []interface{} {
	handlers := make([]interface{}, 0, len(t.Middlewares))
	for _, m := range t.Middlewares {
		handlers = append(handlers, m.Middleware())
	}
	return handlers
}

func (t *Transport) RegisterMiddleware(m Middleware) {
	if m == nil {
		return
	}
	t.Middlewares = append(t.Middlewares, m)
}
