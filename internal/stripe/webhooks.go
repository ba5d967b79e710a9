// Package stripe wraps the Stripe Checkout and webhook APIs used for
// storefront payments.
package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

const (
	EventCheckoutSessionCompleted = stripeapi.EventType("checkout.session.completed")
	EventCheckoutSessionExpired   = stripeapi.EventType("checkout.session.expired")

	orderIDMetadataKey = "order_id"
)

var ErrMissingOrderID = errors.New("checkout session has no order id")

// ReadWebhookEvent reads the request body and verifies its Stripe signature.
func ReadWebhookEvent(r *http.Request, secret string) (*stripeapi.Event, error) {
	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		return nil, fmt.Errorf("missing stripe signature header")
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	event, err := webhook.ConstructEvent(payload, signature, secret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature validation failed: %w", err)
	}

	return &event, nil
}

// DecodeCheckoutSession decodes the object of a checkout.session.* event.
func DecodeCheckoutSession(raw json.RawMessage) (*stripeapi.CheckoutSession, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty checkout session payload")
	}
	var session stripeapi.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("checkout session payload has no id")
	}
	return &session, nil
}

// OrderIDFromSession reads the order id written into the session metadata at
// checkout.
func OrderIDFromSession(session *stripeapi.CheckoutSession) (uuid.UUID, error) {
	if session == nil || session.Metadata[orderIDMetadataKey] == "" {
		return uuid.Nil, ErrMissingOrderID
	}
	id, err := uuid.Parse(session.Metadata[orderIDMetadataKey])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrMissingOrderID, err)
	}
	return id, nil
}

// SessionCustomerEmail prefers the email the customer typed at checkout.
func SessionCustomerEmail(session *stripeapi.CheckoutSession) string {
	if session == nil {
		return ""
	}
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return session.CustomerDetails.Email
	}
	return session.CustomerEmail
}
