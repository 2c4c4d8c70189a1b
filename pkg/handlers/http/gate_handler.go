package http

import (
	"github.com/NeuralTrust/ContentGuard/pkg/app/classifier"
	"github.com/NeuralTrust/ContentGuard/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type gateHandler struct {
	logger     *logrus.Logger
	classifier classifier.Classifier
}

func NewGateHandler(logger *logrus.Logger, classifier classifier.Classifier) Handler {
	return &gateHandler{
		logger:     logger,
		classifier: classifier,
	}
}

// Handle @Summary Classify and gate a text
// @Description Returns the verdict together with the text that may be persisted
// @Tags Moderation
// @Accept json
// @Produce json
// @Param request body request.ClassifyRequest true "Text to gate"
// @Success 200 {object} classifier.GateResult "Gated verdict"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /api/v1/moderation/gate [post]
func (h *gateHandler) Handle(c *fiber.Ctx) error {
	var req request.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to parse gate request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := h.classifier.Gate(c.Context(), classifier.Input{
		Text:      req.TextValue(),
		Context:   req.Context,
		ContentID: req.ContentID,
	})
	if err != nil {
		h.logger.WithError(err).Error("failed to gate content")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrInternal})
	}
	return c.Status(fiber.StatusOK).JSON(res)
}
