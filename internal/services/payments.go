package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/electrostore/electrostore/internal/db"
	"github.com/electrostore/electrostore/internal/email"
	"github.com/electrostore/electrostore/internal/logging"
	"github.com/electrostore/electrostore/internal/models"
	"github.com/electrostore/electrostore/internal/stripe"
)

type paidOrderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, customerEmail string) error
	MarkExpired(ctx context.Context, orderID uuid.UUID) error
}

// PaymentService applies Stripe checkout outcomes to orders.
type PaymentService struct {
	orders    paidOrderStore
	mailer    email.Provider
	storeName string
	storeURL  string
	logger    *slog.Logger
}

func NewPaymentService(orders paidOrderStore, mailer email.Provider, storeName, storeURL string, logger *slog.Logger) (*PaymentService, error) {
	if orders == nil {
		return nil, fmt.Errorf("payment service: order store is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if mailer == nil {
		mailer = email.NewNoopProvider(logger)
	}
	return &PaymentService{
		orders:    orders,
		mailer:    mailer,
		storeName: storeName,
		storeURL:  storeURL,
		logger:    logger,
	}, nil
}

// HandleCheckoutSessionCompleted marks the order paid and emails the
// customer. Events for orders that already left pending_payment are
// acknowledged without changes.
func (s *PaymentService) HandleCheckoutSessionCompleted(ctx context.Context, payload json.RawMessage) error {
	logger := logging.FromContext(ctx, s.logger)

	session, err := stripe.DecodeCheckoutSession(payload)
	if err != nil {
		return err
	}
	orderID, err := stripe.OrderIDFromSession(session)
	if err != nil {
		return err
	}
	logger = logger.With("order_id", orderID, "session_id", session.ID)

	customerEmail := stripe.SessionCustomerEmail(session)
	if err := s.orders.MarkPaid(ctx, orderID, customerEmail); err != nil {
		if errors.Is(err, db.ErrInvalidStatusTransition) {
			logger.Info("ignoring checkout.session.completed due to state transition", "error", err)
			return nil
		}
		return fmt.Errorf("failed to mark order as paid: %w", err)
	}
	logger.Info("order paid")

	if customerEmail == "" {
		logger.Warn("paid order has no customer email, skipping confirmation")
		return nil
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		logger.Error("failed to load paid order for confirmation email", "error", err)
		return nil
	}
	confirmation := email.NewOrderConfirmation(order, s.storeName, s.storeURL)
	if err := email.SendOrderConfirmation(ctx, s.mailer, customerEmail, confirmation); err != nil {
		logger.Error("failed to send order confirmation email", "error", err)
	}
	return nil
}

func (s *PaymentService) HandleCheckoutSessionExpired(ctx context.Context, payload json.RawMessage) error {
	logger := logging.FromContext(ctx, s.logger)

	session, err := stripe.DecodeCheckoutSession(payload)
	if err != nil {
		return err
	}
	orderID, err := stripe.OrderIDFromSession(session)
	if err != nil {
		return err
	}

	if err := s.orders.MarkExpired(ctx, orderID); err != nil {
		if errors.Is(err, db.ErrInvalidStatusTransition) {
			logger.Info("ignoring checkout.session.expired due to state transition", "order_id", orderID, "error", err)
			return nil
		}
		return fmt.Errorf("failed to mark order as expired: %w", err)
	}
	logger.Info("order expired", "order_id", orderID, "session_id", session.ID)
	return nil
}
