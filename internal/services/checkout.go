package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v84"

	"github.com/electrostore/electrostore/internal/catalog"
	"github.com/electrostore/electrostore/internal/db"
	"github.com/electrostore/electrostore/internal/logging"
	"github.com/electrostore/electrostore/internal/models"
	"github.com/electrostore/electrostore/internal/observability"
	"github.com/electrostore/electrostore/internal/stripe"
)

type productGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type pendingOrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	SetCheckoutSession(ctx context.Context, orderID uuid.UUID, sessionID string) error
}

type checkoutSessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionParams) (*stripeapi.CheckoutSession, error)
}

type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CheckoutRequest struct {
	Items         []CartItem `json:"items"`
	CustomerEmail string     `json:"email" validate:"omitempty,email"`
}

type CheckoutResult struct {
	OrderID     uuid.UUID `json:"order_id"`
	CheckoutURL string    `json:"checkout_url"`
}

type CheckoutService struct {
	products productGetter
	orders   pendingOrderStore
	payments checkoutSessionCreator
	pricer   *catalog.Pricer
	baseURL  string
	logger   *slog.Logger
}

// NewCheckoutService builds the cart service. payments may be nil, in which
// case carts can be quoted but not paid.
func NewCheckoutService(products productGetter, orders pendingOrderStore, payments checkoutSessionCreator, pricer *catalog.Pricer, baseURL string, logger *slog.Logger) (*CheckoutService, error) {
	if products == nil {
		return nil, fmt.Errorf("checkout service: product getter is required")
	}
	if orders == nil {
		return nil, fmt.Errorf("checkout service: order store is required")
	}
	if pricer == nil {
		pricer = catalog.NewPricer(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CheckoutService{
		products: products,
		orders:   orders,
		payments: payments,
		pricer:   pricer,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}, nil
}

// QuoteCart prices the cart against current catalog data. Repeated products
// are merged into one line.
func (s *CheckoutService) QuoteCart(ctx context.Context, items []CartItem) (*catalog.CartQuote, error) {
	lines, err := s.cartLines(ctx, items)
	if err != nil {
		return nil, err
	}
	quote, err := s.pricer.Quote(lines)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidQuantity) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}
	return quote, nil
}

func (s *CheckoutService) cartLines(ctx context.Context, items []CartItem) ([]catalog.CartLine, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidInput)
	}

	quantities := make(map[uuid.UUID]int, len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, seen := quantities[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	lines := make([]catalog.CartLine, 0, len(order))
	for _, id := range order {
		product, err := s.products.Get(ctx, id)
		if errors.Is(err, db.ErrNotFound) || (err == nil && !product.Active) {
			return nil, fmt.Errorf("%w: product %s is not available", ErrInvalidInput, id)
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, catalog.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantities[id],
			Available: product.Stock,
		})
	}
	return lines, nil
}

// Checkout records a pending order for the cart and opens a Stripe Checkout
// session for it.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	span, ctx := observability.StartSpan(ctx, "service.checkout", "Checkout")
	defer span.Finish()

	logger := logging.FromContext(ctx, s.logger)
	meter := observability.MeterFromContext(ctx)
	recordFailure := observability.FailureCounter(meter, "checkout.failed")
	meter.Count("checkout.started", 1)

	if s.payments == nil {
		recordFailure("payments_disabled")
		return nil, ErrPaymentsUnavailable
	}
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if err := validateInput(req); err != nil {
		recordFailure("invalid_request")
		return nil, err
	}

	quote, err := s.QuoteCart(ctx, req.Items)
	if err != nil {
		recordFailure("quote_failed")
		return nil, err
	}

	order := newPendingOrder(quote)
	if err := s.orders.Create(ctx, order); err != nil {
		recordFailure("order_create_failed")
		return nil, err
	}
	logger = logger.With("order_id", order.ID)

	session, err := s.payments.CreateCheckoutSession(ctx, stripe.CheckoutSessionParams{
		OrderID:       order.ID,
		Currency:      quote.Currency,
		Lines:         checkoutLines(quote),
		ShippingCents: order.ShippingCents,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    s.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.baseURL + "/cart",
	})
	if err != nil {
		recordFailure("stripe_session_failed")
		logger.Error("failed to create checkout session", "error", err)
		return nil, err
	}

	if err := s.orders.SetCheckoutSession(ctx, order.ID, session.ID); err != nil {
		recordFailure("order_session_failed")
		return nil, fmt.Errorf("failed to attach checkout session: %w", err)
	}

	meter.Count("checkout.session_created", 1)
	logger.Info("checkout session created", "session_id", session.ID, "total_cents", order.TotalCents)
	return &CheckoutResult{OrderID: order.ID, CheckoutURL: session.URL}, nil
}

func newPendingOrder(quote *catalog.CartQuote) *models.Order {
	items := make([]models.OrderItem, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice.InexactFloat64(),
			Quantity:  line.Quantity,
		})
	}
	return &models.Order{
		Items:         items,
		SubtotalCents: catalog.ToMinorUnits(quote.Subtotal),
		ShippingCents: catalog.ToMinorUnits(quote.Shipping),
		TotalCents:    catalog.ToMinorUnits(quote.Total),
		Currency:      quote.Currency,
		Status:        models.StatusPendingPayment,
	}
}

func checkoutLines(quote *catalog.CartQuote) []stripe.CheckoutLine {
	lines := make([]stripe.CheckoutLine, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		lines = append(lines, stripe.CheckoutLine{
			Name:            line.Name,
			UnitAmountCents: catalog.ToMinorUnits(line.UnitPrice),
			Quantity:        int64(line.Quantity),
		})
	}
	return lines
}
