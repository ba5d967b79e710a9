package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/electrostore/electrostore/internal/cache"
	stripewebhook "github.com/electrostore/electrostore/internal/stripe"
)

// stripeWebhookIdempotencyTTL is how long webhook event IDs are kept for deduplication
const stripeWebhookIdempotencyTTL = 24 * time.Hour

func (h *Handlers) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	secret := strings.TrimSpace(h.config.StripeWebhookSecret)
	if secret == "" || h.stripeRouter == nil {
		logger.Warn("received Stripe webhook while payments are disabled")
		http.Error(w, "Payments not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	event, err := stripewebhook.ReadWebhookEvent(r, secret)
	if err != nil {
		logger.Error("failed to read Stripe webhook payload", "error", err)
		http.Error(w, "Invalid webhook", http.StatusBadRequest)
		return
	}

	if event == nil || event.ID == "" {
		logger.Error("missing Stripe event ID")
		http.Error(w, "Missing event ID", http.StatusBadRequest)
		return
	}

	cacheKey := cache.WebhookKey("stripe", event.ID)
	if _, err := h.cacheProvider.Get(ctx, cacheKey); err == nil {
		logger.Info("webhook already processed", "event_id", event.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.stripeRouter.Handle(ctx, event); err != nil {
		logger.Error("failed to process Stripe webhook", "error", err, "type", event.Type)
		http.Error(w, "Processing failed", http.StatusInternalServerError)
		return
	}
	if err := h.cacheProvider.Set(ctx, cacheKey, "processed", stripeWebhookIdempotencyTTL); err != nil {
		logger.Error("failed to mark webhook as processed in cache", "error", err)
	}

	w.WriteHeader(http.StatusOK)
}
