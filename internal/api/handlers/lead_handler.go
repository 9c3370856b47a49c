package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/propertyhub-api/internal/service"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

type LeadHandler struct {
	s           service.LeadService
	frontendURL string
}

func NewLeadHandler(service service.LeadService, frontendURL string) *LeadHandler {
	return &LeadHandler{s: service, frontendURL: strings.TrimRight(frontendURL, "/")}
}

// Submit takes the public inquiry form. Browser posts are redirected back to
// the listing page, fetch calls get JSON.
func (h *LeadHandler) Submit(c *fiber.Ctx) error {
	listingID := c.Query("listingId")

	_, err := h.s.Submit(c.Context(), &transfer.LeadInput{
		ListingID: listingID,
		FullName:  c.FormValue("fullName"),
		Phone:     c.FormValue("phone"),
		Email:     c.FormValue("email"),
		Message:   c.FormValue("message"),
	})
	if err != nil {
		return respondError(c, err)
	}

	if c.Get("X-Requested-With") == "fetch" {
		return c.JSON(fiber.Map{"ok": true})
	}
	return c.Redirect(fmt.Sprintf("%s/property/listings/%s", h.frontendURL, listingID), fiber.StatusSeeOther)
}

func (h *LeadHandler) List(c *fiber.Ctx) error {
	filter, err := leadFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	leads, err := h.s.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"leads": leads})
}

func (h *LeadHandler) Export(c *fiber.Ctx) error {
	filter, err := leadFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	csv, err := h.s.ExportCSV(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=leads.csv`)
	return c.Status(fiber.StatusOK).Send(csv)
}

func leadFilter(c *fiber.Ctx) (*transfer.LeadFilter, error) {
	from, err := queryTime(c, "from", false)
	if err != nil {
		return nil, err
	}
	to, err := queryTime(c, "to", true)
	if err != nil {
		return nil, err
	}
	return &transfer.LeadFilter{
		Query:   c.Query("q"),
		City:    c.Query("city"),
		Listing: c.Query("listing"),
		From:    from,
		To:      to,
	}, nil
}

// queryTime accepts RFC 3339 or a plain date. A plain "to" date covers the whole day.
func queryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("Invalid value for %s.", key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
