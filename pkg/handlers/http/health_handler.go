package http

import (
	"context"
	"time"

	"github.com/NeuralTrust/ContentGuard/pkg/infra/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const healthCheckTimeout = 2 * time.Second

type healthHandler struct {
	logger *logrus.Logger
	cache  cache.Client
}

// NewHealthHandler reports liveness. When a redis client is given, its
// reachability is included as a degraded status rather than a failure.
func NewHealthHandler(logger *logrus.Logger, cache cache.Client) Handler {
	return &healthHandler{
		logger: logger,
		cache:  cache,
	}
}

func (h *healthHandler) Handle(c *fiber.Ctx) error {
	body := fiber.Map{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.WithError(err).Warn("verdict store unreachable")
			body["status"] = "degraded"
			body["verdict_store"] = "unreachable"
		} else {
			body["verdict_store"] = "ok"
		}
	}
	return c.Status(fiber.StatusOK).JSON(body)
}
