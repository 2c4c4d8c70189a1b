package http

import (
	"github.com/NeuralTrust/ContentGuard/pkg/app/classifier"
	"github.com/NeuralTrust/ContentGuard/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type classifyHandler struct {
	logger     *logrus.Logger
	classifier classifier.Classifier
}

func NewClassifyHandler(logger *logrus.Logger, classifier classifier.Classifier) Handler {
	return &classifyHandler{
		logger:     logger,
		classifier: classifier,
	}
}

// Handle @Summary Classify a text
// @Description Scores the text across all harm categories and returns a severity verdict
// @Tags Moderation
// @Accept json
// @Produce json
// @Param request body request.ClassifyRequest true "Text to classify"
// @Success 200 {object} classifier.Result "Verdict"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /api/v1/moderation/classify [post]
func (h *classifyHandler) Handle(c *fiber.Ctx) error {
	var req request.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to parse classify request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := h.classifier.Classify(c.Context(), classifier.Input{
		Text:      req.TextValue(),
		Context:   req.Context,
		ContentID: req.ContentID,
	})
	if err != nil {
		h.logger.WithError(err).Error("failed to classify content")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrInternal})
	}
	return c.Status(fiber.StatusOK).JSON(res)
}
