package http

import (
	"errors"

	"github.com/NeuralTrust/ContentGuard/pkg/app/classifier"
	"github.com/NeuralTrust/ContentGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/ContentGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/ContentGuard/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type batchHandler struct {
	logger       *logrus.Logger
	classifier   classifier.Classifier
	maxBatchSize int
}

func NewBatchHandler(logger *logrus.Logger, classifier classifier.Classifier, maxBatchSize int) Handler {
	return &batchHandler{
		logger:       logger,
		classifier:   classifier,
		maxBatchSize: maxBatchSize,
	}
}

// Handle @Summary Classify a batch of texts
// @Description Classifies every item concurrently; results keep request order
// @Tags Moderation
// @Accept json
// @Produce json
// @Param request body request.BatchRequest true "Items to classify"
// @Success 200 {object} response.BatchResponse "Verdicts"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 413 {object} map[string]interface{} "Batch too large"
// @Router /api/v1/moderation/batch [post]
func (h *batchHandler) Handle(c *fiber.Ctx) error {
	var req request.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to parse batch request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if h.maxBatchSize > 0 && len(req.Items) > h.maxBatchSize {
		h.logger.WithFields(logrus.Fields{
			"items": len(req.Items),
			"max":   h.maxBatchSize,
		}).Warn("batch rejected")
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": classifier.ErrBatchTooLarge.Error()})
	}
	if err := req.Validate(h.maxBatchSize); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	prometheus.BatchSize.Observe(float64(len(req.Items)))

	items := make([]classifier.Input, len(req.Items))
	for i := range req.Items {
		items[i] = classifier.Input{
			Text:      req.Items[i].TextValue(),
			Context:   req.Items[i].Context,
			ContentID: req.Items[i].ContentID,
		}
	}

	results, err := h.classifier.ClassifyBatch(c.Context(), items)
	if err != nil {
		switch {
		case errors.Is(err, classifier.ErrBatchTooLarge):
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, classifier.ErrEmptyBatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("failed to classify batch")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrInternal})
	}
	return c.Status(fiber.StatusOK).JSON(response.NewBatchResponse(results))
}
