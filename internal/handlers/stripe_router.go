package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	stripeapi "github.com/stripe/stripe-go/v84"

	"github.com/electrostore/electrostore/internal/logging"
	"github.com/electrostore/electrostore/internal/observability"
	"github.com/electrostore/electrostore/internal/stripe"
)

type checkoutEventHandler interface {
	HandleCheckoutSessionCompleted(ctx context.Context, payload json.RawMessage) error
	HandleCheckoutSessionExpired(ctx context.Context, payload json.RawMessage) error
}

// StripeEventRouter dispatches verified Stripe events to the payment
// service. Event types it does not know are acknowledged.
type StripeEventRouter struct {
	service checkoutEventHandler
	logger  *slog.Logger
}

func NewStripeEventRouter(service checkoutEventHandler, logger *slog.Logger) *StripeEventRouter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StripeEventRouter{
		service: service,
		logger:  logger,
	}
}

func (r *StripeEventRouter) Handle(ctx context.Context, event *stripeapi.Event) error {
	span, ctx := observability.StartSpan(ctx, "handler.stripe_router", "StripeEventRouter.Handle")
	defer span.Finish()

	meter := observability.MeterFromContext(ctx)
	meter.SetAttributes(attribute.String("webhook.provider", "stripe"))
	meter.Count("webhook.router.received", 1)
	recordFailed := observability.FailureCounter(meter, "webhook.router.failed")

	if event == nil {
		recordFailed("missing_event")
		return fmt.Errorf("missing stripe event")
	}
	if event.Data == nil {
		recordFailed("missing_event_data")
		return fmt.Errorf("missing stripe event data")
	}
	meter.SetAttributes(attribute.String("webhook.event_type", string(event.Type)))

	logger := logging.FromContext(ctx, r.logger).With("event_id", event.ID, "event_type", event.Type)
	ctx = logging.WithLogger(ctx, logger)
	payload := event.Data.Raw

	var err error
	switch event.Type {
	case stripe.EventCheckoutSessionCompleted:
		err = r.service.HandleCheckoutSessionCompleted(ctx, payload)
	case stripe.EventCheckoutSessionExpired:
		err = r.service.HandleCheckoutSessionExpired(ctx, payload)
	default:
		logger.Info("unhandled Stripe event type")
		meter.Count("webhook.router.unhandled", 1)
		span.Status = sentry.SpanStatusOK
		return nil
	}
	if err != nil {
		recordFailed(string(event.Type) + "_failed")
		span.Status = sentry.SpanStatusInternalError
		return err
	}

	meter.Count("webhook.router.processed", 1)
	span.Status = sentry.SpanStatusOK
	return nil
}
