package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Order is the gateway-side payment intent. Receipt carries the local
// order id so a fetched intent can be reconciled back to its order.
type Order struct {
	ID       string
	Amount   int64 // minor currency units
	Currency string
	Receipt  string
	Status   string // created, attempted, paid
}

// StatusPaid is the only gateway status that confirms a payment.
const StatusPaid = "paid"

// Gateway abstracts the payment provider so services can be tested
// against a fake.
type Gateway interface {
	// CreateOrder opens a payment intent for amountMinor, keyed by receipt.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
	// FetchOrder returns the authoritative intent state by gateway id.
	FetchOrder(ctx context.Context, gatewayOrderID string) (*Order, error)
}

// RazorpayGateway implements Gateway on the Razorpay Orders API.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpay(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create failed: %w", err)
	}
	return orderFromBody(body), nil
}

func (g *RazorpayGateway) FetchOrder(_ context.Context, gatewayOrderID string) (*Order, error) {
	body, err := g.client.Order.Fetch(gatewayOrderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order fetch failed: %w", err)
	}
	return orderFromBody(body), nil
}

func orderFromBody(body map[string]interface{}) *Order {
	o := &Order{
		ID:       asString(body["id"]),
		Currency: asString(body["currency"]),
		Receipt:  asString(body["receipt"]),
		Status:   asString(body["status"]),
	}
	if amt, ok := body["amount"].(float64); ok {
		o.Amount = int64(amt)
	}
	return o
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

var _ Gateway = (*RazorpayGateway)(nil)
