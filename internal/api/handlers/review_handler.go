package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/propertyhub-api/internal/service"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

type ReviewHandler struct {
	s service.ModerationService
}

func NewReviewHandler(service service.ModerationService) *ReviewHandler {
	return &ReviewHandler{s: service}
}

func (h *ReviewHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ReviewHandler) Queue(c *fiber.Ctx) error {
	queue, err := h.s.ReviewQueue(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"queue": queue})
}

func (h *ReviewHandler) Decide(c *fiber.Ctx) error {
	var req transfer.ReviewDecision
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	status, err := h.s.RecordMediaDecision(c.Context(), req.MediaID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "listingStatus": status})
}
