package http

import (
	"errors"
	"strconv"

	"github.com/NeuralTrust/ContentGuard/pkg/app/guard"
	pluginTypes "github.com/NeuralTrust/ContentGuard/pkg/infra/plugins/types"
	"github.com/NeuralTrust/ContentGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	TraceIDHeader  = "X-Trace-ID"
	ModifiedHeader = "X-Content-Modified"
)

type payloadHandler struct {
	logger *logrus.Logger
	guard  guard.Guard
}

func NewPayloadHandler(logger *logrus.Logger, guard guard.Guard) Handler {
	return &payloadHandler{
		logger: logger,
		guard:  guard,
	}
}

// Handle @Summary Inspect an arbitrary payload
// @Description Runs the plugin chain over the body and echoes it back, sanitized when needed
// @Tags Moderation
// @Accept json
// @Produce json
// @Success 200 {string} string "Payload after moderation"
// @Failure 400 {object} map[string]interface{} "Empty payload"
// @Failure 403 {object} map[string]interface{} "Payload rejected"
// @Router /api/v1/moderation/payload [post]
func (h *payloadHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrEmptyPayload})
	}

	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	res, err := h.guard.Inspect(c.Context(), guard.Input{
		RequestID: requestID,
		Method:    c.Method(),
		Path:      c.Path(),
		IP:        c.IP(),
		Headers:   c.GetReqHeaders(),
		Body:      append([]byte(nil), body...),
	})
	if err != nil {
		var pluginErr *pluginTypes.PluginError
		if errors.As(err, &pluginErr) {
			return c.Status(pluginErr.StatusCode).JSON(fiber.Map{
				"error":  pluginErr.Message,
				"plugin": pluginErr.Plugin,
			})
		}
		h.logger.WithError(err).Error("failed to inspect payload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrInternal})
	}

	c.Set(TraceIDHeader, res.TraceID)
	c.Set(ModifiedHeader, strconv.FormatBool(res.Modified))
	if ct := c.Get(fiber.HeaderContentType); ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	}
	return c.Status(fiber.StatusOK).Send(res.Body)
}
