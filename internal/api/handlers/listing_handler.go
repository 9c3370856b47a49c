package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/propertyhub-api/internal/service"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

type ListingHandler struct {
	s service.ListingService
}

func NewListingHandler(service service.ListingService) *ListingHandler {
	return &ListingHandler{s: service}
}

func (h *ListingHandler) Submit(c *fiber.Ctx) error {
	userID := GetUserID(c)

	in, err := listingInputFromForm(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	files, err := readUploads(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	listing, err := h.s.Submit(c.Context(), userID, in, files)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":        true,
		"listingId": listing.ID,
	})
}

func (h *ListingHandler) Resubmit(c *fiber.Ctx) error {
	userID := GetUserID(c)

	in, err := listingInputFromForm(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	files, err := readUploads(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if _, err := h.s.Resubmit(c.Context(), userID, c.Params("id"), in, files); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	if err := h.s.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ListingHandler) ListMine(c *fiber.Ctx) error {
	listings, err := h.s.ListMine(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"listings": listings})
}

func (h *ListingHandler) GetMine(c *fiber.Ctx) error {
	listing, err := h.s.GetMine(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"listing": listing})
}

func (h *ListingHandler) Timeline(c *fiber.Ctx) error {
	timeline, err := h.s.Timeline(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"timeline": timeline})
}

func (h *ListingHandler) ListPublic(c *fiber.Ctx) error {
	minPrice, err := queryInt64(c, "min_price")
	if err != nil {
		return badRequest(c, err.Error())
	}
	maxPrice, err := queryInt64(c, "max_price")
	if err != nil {
		return badRequest(c, err.Error())
	}

	listings, err := h.s.ListPublic(c.Context(), &transfer.PublicListingFilter{
		Query:        c.Query("q"),
		City:         c.Query("city"),
		ListingType:  c.Query("listing_type"),
		PropertyType: c.Query("property_type"),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Limit:        c.QueryInt("limit", 0),
		Offset:       c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"listings": listings})
}

func (h *ListingHandler) GetPublic(c *fiber.Ctx) error {
	view, err := h.s.GetPublic(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *ListingHandler) SuggestTitles(c *fiber.Ctx) error {
	titles, err := h.s.SuggestTitles(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": titles})
}
