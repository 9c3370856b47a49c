package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/propertyhub-api/internal/service"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) List(c *fiber.Ctx) error {
	media, err := h.s.List(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"media": media})
}

func (h *MediaHandler) Get(c *fiber.Ctx) error {
	media, err := h.s.Get(c.Context(), GetUserID(c), c.Params("id"), c.Params("mediaId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"media": media})
}

func (h *MediaHandler) UpdateCaption(c *fiber.Ctx) error {
	var req transfer.CaptionUpdate
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	caption := ""
	if req.Caption != nil {
		caption = *req.Caption
	}

	err := h.s.UpdateCaption(c.Context(), GetUserID(c), c.Params("id"), c.Params("mediaId"), caption)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *MediaHandler) Reorder(c *fiber.Ctx) error {
	var req transfer.MediaOrder
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.s.Reorder(c.Context(), GetUserID(c), c.Params("id"), req.Order); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *MediaHandler) Remove(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), GetUserID(c), c.Params("id"), c.Params("mediaId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
