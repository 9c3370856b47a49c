package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/propertyhub-api/internal/service"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

type PaymentHandler struct {
	s service.PaymentService
}

func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{s: service}
}

func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req transfer.CreateOrderRequest
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	order, err := h.s.CreateOrder(c.Context(), GetUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// PaymentWebhook receives Razorpay events. The raw body is what gets signed.
func (h *PaymentHandler) PaymentWebhook(c *fiber.Ctx) error {
	err := h.s.HandleWebhook(c.Context(), c.Body(), c.Get("X-Razorpay-Signature"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
