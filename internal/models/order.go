package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusPaid           OrderStatus = "paid"
	StatusExpired        OrderStatus = "expired"
)

type Order struct {
	ID                      uuid.UUID   `json:"id"`
	Items                   []OrderItem `json:"items"`
	SubtotalCents           int64       `json:"subtotal_cents"`
	ShippingCents           int64       `json:"shipping_cents"`
	TotalCents              int64       `json:"total_cents"`
	Currency                string      `json:"currency"`
	Status                  OrderStatus `json:"status"`
	StripeCheckoutSessionID string      `json:"stripe_checkout_session_id"`
	CustomerEmail           string      `json:"customer_email"`
	CreatedAt               time.Time   `json:"created_at"`
	PaidAt                  time.Time   `json:"paid_at"`
}

type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}
