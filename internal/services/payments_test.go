package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/electrostore/electrostore/internal/models"
	"github.com/electrostore/electrostore/internal/stripe"
)

func sessionPayload(t *testing.T, orderID uuid.UUID, email string) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":       "cs_test_123",
		"object":   "checkout.session",
		"metadata": map[string]string{"order_id": orderID.String()},
		"customer_details": map[string]any{
			"email": email,
		},
	})
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	return payload
}

func seedPendingOrder(orders *fakeOrders) uuid.UUID {
	order := &models.Order{
		Items:         []models.OrderItem{{ProductID: uuid.New(), Name: "Smart TV", UnitPrice: 1000, Quantity: 1}},
		SubtotalCents: 100000,
		ShippingCents: 500000,
		TotalCents:    600000,
		Currency:      "ars",
		Status:        models.StatusPendingPayment,
	}
	_ = orders.Create(context.Background(), order)
	return order.ID
}

func TestHandleCheckoutSessionCompleted(t *testing.T) {
	t.Parallel()

	orders := newFakeOrders()
	mailer := &recordingMailer{}
	service, err := NewPaymentService(orders, mailer, "ElectroStore", "https://shop.example", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orderID := seedPendingOrder(orders)

	if err := service.HandleCheckoutSessionCompleted(context.Background(), sessionPayload(t, orderID, "ana@example.com")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders.orders[orderID].Status != models.StatusPaid {
		t.Fatalf("expected paid order, got %s", orders.orders[orderID].Status)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "ana@example.com" {
		t.Fatalf("expected one confirmation email, got %+v", mailer.sent)
	}
	if !strings.Contains(mailer.sent[0].Text, "ARS 6000.00") {
		t.Fatalf("confirmation should include total: %q", mailer.sent[0].Text)
	}

	// Redelivery after the order left pending_payment is acknowledged.
	if err := service.HandleCheckoutSessionCompleted(context.Background(), sessionPayload(t, orderID, "ana@example.com")); err != nil {
		t.Fatalf("expected redelivery to be ignored, got %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("redelivery should not send another email, got %d", len(mailer.sent))
	}
}

func TestHandleCheckoutSessionCompleted_NoEmail(t *testing.T) {
	t.Parallel()

	orders := newFakeOrders()
	mailer := &recordingMailer{}
	service, err := NewPaymentService(orders, mailer, "ElectroStore", "https://shop.example", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orderID := seedPendingOrder(orders)

	if err := service.HandleCheckoutSessionCompleted(context.Background(), sessionPayload(t, orderID, "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders.orders[orderID].Status != models.StatusPaid || len(mailer.sent) != 0 {
		t.Fatalf("expected paid order without email")
	}
}

func TestHandleCheckoutSessionCompleted_MissingOrderID(t *testing.T) {
	t.Parallel()

	service, err := NewPaymentService(newFakeOrders(), nil, "ElectroStore", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = service.HandleCheckoutSessionCompleted(context.Background(), json.RawMessage(`{"id":"cs_test","object":"checkout.session"}`))
	if !errors.Is(err, stripe.ErrMissingOrderID) {
		t.Fatalf("expected ErrMissingOrderID, got %v", err)
	}
}

func TestHandleCheckoutSessionExpired(t *testing.T) {
	t.Parallel()

	orders := newFakeOrders()
	service, err := NewPaymentService(orders, nil, "ElectroStore", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orderID := seedPendingOrder(orders)

	if err := service.HandleCheckoutSessionExpired(context.Background(), sessionPayload(t, orderID, "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders.orders[orderID].Status != models.StatusExpired {
		t.Fatalf("expected expired order, got %s", orders.orders[orderID].Status)
	}
	if err := service.HandleCheckoutSessionExpired(context.Background(), sessionPayload(t, orderID, "")); err != nil {
		t.Fatalf("expected second expiry to be ignored, got %v", err)
	}
}
