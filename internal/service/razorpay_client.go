package service

import (
	"context"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"
)

type Order struct {
	ID       string
	Amount   int64
	Currency string
}

// OrderCreator creates payment orders with the payment provider.
type OrderCreator interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error)
}

type razorpayOrders struct {
	client *razorpay.Client
}

func NewRazorpayOrderCreator(keyID, keySecret string) OrderCreator {
	return &razorpayOrders{client: razorpay.NewClient(keyID, keySecret)}
}

func (r *razorpayOrders) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, err
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay order response has no id")
	}

	order := &Order{ID: id, Amount: amount, Currency: currency}
	if v, ok := body["amount"].(float64); ok {
		order.Amount = int64(v)
	}
	if v, ok := body["currency"].(string); ok && v != "" {
		order.Currency = v
	}
	return order, nil
}
