package router

import (
	"net/http/httptest"
	"testing"

	handlers "github.com/NeuralTrust/ContentGuard/pkg/handlers/http"
	"github.com/NeuralTrust/ContentGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedHandler string

func (h namedHandler) Handle(c *fiber.Ctx) error {
	return c.SendString(string(h))
}

func TestAPIRouter_BuildRoutes(t *testing.T) {
	transport := &handlers.HandlerTransport{
		ClassifyHandler:   namedHandler("classify"),
		GateHandler:       namedHandler("gate"),
		BatchHandler:      namedHandler("batch"),
		PayloadHandler:    namedHandler("payload"),
		GetVerdictHandler: namedHandler("verdict"),
		GetVersionHandler: namedHandler("version"),
		HealthHandler:     namedHandler("health"),
	}
	app := fiber.New()
	r := NewAPIRouter(middleware.NewTransport(middleware.NewRequestIDMiddleware()), transport)
	require.NoError(t, r.BuildRoutes(app))

	tests := []struct {
		method   string
		path     string
		expected string
	}{
		{method: "POST", path: "/api/v1/moderation/classify", expected: "classify"},
		{method: "POST", path: "/api/v1/moderation/gate", expected: "gate"},
		{method: "POST", path: "/api/v1/moderation/batch", expected: "batch"},
		{method: "POST", path: "/api/v1/moderation/payload", expected: "payload"},
		{method: "GET", path: "/api/v1/verdicts/post/42", expected: "verdict"},
		{method: "GET", path: "/version", expected: "version"},
		{method: "GET", path: "/health", expected: "health"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			body := make([]byte, len(tt.expected))
			_, _ = resp.Body.Read(body)
			assert.Equal(t, tt.expected, string(body))
		})
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/moderation/classify", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}

func TestAPIRouter_InvalidTransport(t *testing.T) {
	r := NewAPIRouter(nil, &handlers.HandlerTransport{ClassifyHandler: namedHandler("classify")})
	assert.ErrorIs(t, r.BuildRoutes(fiber.New()), ErrInvalidHandlerTransport)

	assert.ErrorIs(t, NewAPIRouter(nil, nil).BuildRoutes(fiber.New()), ErrInvalidHandlerTransport)
}
