package http

import (
	"errors"

	"github.com/NeuralTrust/ContentGuard/pkg/app/classifier"
	domain "github.com/NeuralTrust/ContentGuard/pkg/domain/errors"
	"github.com/NeuralTrust/ContentGuard/pkg/domain/verdict"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getVerdictHandler struct {
	logger *logrus.Logger
	finder classifier.Finder
}

func NewGetVerdictHandler(logger *logrus.Logger, finder classifier.Finder) Handler {
	return &getVerdictHandler{
		logger: logger,
		finder: finder,
	}
}

// Handle @Summary Retrieve a stored verdict
// @Description Returns the verdict stored for a piece of content
// @Tags Verdicts
// @Produce json
// @Param context path string true "Content context"
// @Param content_id path string true "Content ID"
// @Success 200 {object} verdict.Record "Stored verdict"
// @Failure 404 {object} map[string]interface{} "Verdict not found"
// @Failure 503 {object} map[string]interface{} "Verdict store disabled"
// @Router /api/v1/verdicts/{context}/{content_id} [get]
func (h *getVerdictHandler) Handle(c *fiber.Ctx) error {
	contentContext := c.Params("context")
	contentID := c.Params("content_id")

	record, err := h.finder.Find(c.Context(), contentContext, contentID)
	if err != nil {
		switch {
		case errors.Is(err, classifier.ErrStoreDisabled):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		case domain.IsNotFound(err):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "verdict not found"})
		case errors.Is(err, verdict.ErrMissingContext),
			errors.Is(err, verdict.ErrMissingContentID),
			errors.Is(err, verdict.ErrInvalidKeyPart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithFields(logrus.Fields{
			"context":    contentContext,
			"content_id": contentID,
		}).WithError(err).Error("failed to get verdict")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrInternal})
	}
	return c.Status(fiber.StatusOK).JSON(record)
}
