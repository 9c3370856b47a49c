package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maheshrc27/propertyhub-api/internal/models"
	"github.com/maheshrc27/propertyhub-api/internal/repository"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
	"github.com/maheshrc27/propertyhub-api/pkg/utils"
)

const orderCurrency = "INR"

type PaymentService interface {
	CreateOrder(ctx context.Context, userID string, req *transfer.CreateOrderRequest) (*transfer.OrderResponse, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type paymentService struct {
	orders        OrderCreator
	mr            repository.MembershipRepository
	keyID         string
	webhookSecret string
}

// NewPaymentService accepts a nil OrderCreator when Razorpay keys are not configured.
func NewPaymentService(orders OrderCreator, mr repository.MembershipRepository, keyID, webhookSecret string) PaymentService {
	return &paymentService{orders: orders, mr: mr, keyID: keyID, webhookSecret: webhookSecret}
}

func (s *paymentService) CreateOrder(ctx context.Context, userID string, req *transfer.CreateOrderRequest) (*transfer.OrderResponse, error) {
	if s.orders == nil || s.keyID == "" {
		return nil, newError(ErrPaymentsDisabled, "Missing Razorpay keys.")
	}

	req.PlanName = strings.TrimSpace(req.PlanName)
	if err := transfer.Validate(req); err != nil {
		return nil, newError(ErrInvalidInput, "Missing plan details.")
	}

	amount := int64(math.Round(req.Amount * 100))
	receipt := fmt.Sprintf("membership_%s_%d", req.PlanName, time.Now().UnixMilli())

	order, err := s.orders.CreateOrder(ctx, amount, orderCurrency, receipt, map[string]interface{}{"planName": req.PlanName})
	if err != nil {
		slog.Error("failed to create razorpay order", "plan", req.PlanName, "error", err)
		return nil, err
	}

	err = s.mr.Create(ctx, &models.Membership{
		ID:              uuid.NewString(),
		ProfileID:       userID,
		PlanName:        req.PlanName,
		Status:          models.MembershipStatusPending,
		RazorpayOrderID: order.ID,
	})
	if err != nil {
		return nil, err
	}

	return &transfer.OrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.keyID,
	}, nil
}

// Only these events mean the order has been paid.
var activatingEvents = map[string]bool{
	"payment.captured": true,
	"order.paid":       true,
}

// HandleWebhook trusts the payload only after its signature checks out.
func (s *paymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.webhookSecret == "" {
		return newError(ErrPaymentsDisabled, "Missing webhook secret.")
	}
	if !utils.VerifyHMAC(s.webhookSecret, body, signature) {
		return newError(ErrInvalidSignature, "Invalid signature.")
	}

	var event transfer.RazorpayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return newError(ErrInvalidInput, "Invalid payload.")
	}

	if !activatingEvents[event.Event] {
		slog.Info("webhook event ignored", "event", event.Event)
		return nil
	}

	orderID := event.OrderID()
	if orderID == "" {
		return nil
	}

	found, err := s.mr.ActivateByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if !found {
		slog.Warn("webhook for unknown order", "order_id", orderID, "event", event.Event)
		return nil
	}

	slog.Info("membership activated", "order_id", orderID, "event", event.Event)
	return nil
}
