package transfer

type CreateOrderRequest struct {
	PlanName string  `json:"planName" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
}

type OrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// RazorpayWebhookEvent keeps only the fields needed to locate the order.
type RazorpayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// OrderID returns the payment's order id, falling back to the order entity id.
func (e *RazorpayWebhookEvent) OrderID() string {
	if e.Payload.Payment != nil && e.Payload.Payment.Entity.OrderID != "" {
		return e.Payload.Payment.Entity.OrderID
	}
	if e.Payload.Order != nil {
		return e.Payload.Order.Entity.ID
	}
	return ""
}
