package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/electrostore/electrostore/internal/models"
)

var ErrInvalidStatusTransition = errors.New("invalid order status transition")

const orderColumns = `id, items, subtotal_cents, shipping_cents, total_cents, currency, status,
	stripe_checkout_session_id, customer_email, created_at, paid_at`

type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Create persists a new order and fills in its id and creation time.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (items, subtotal_cents, shipping_cents, total_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err = s.pool.QueryRow(ctx, query,
		itemsJSON,
		order.SubtotalCents,
		order.ShippingCents,
		order.TotalCents,
		order.Currency,
		string(order.Status),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

func (s *OrderStore) GetByStripeSessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	order, err := scanOrder(s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE stripe_checkout_session_id = $1`, sessionID))
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

func (s *OrderStore) SetCheckoutSession(ctx context.Context, orderID uuid.UUID, sessionID string) error {
	query := `
		UPDATE orders
		SET stripe_checkout_session_id = $2
		WHERE id = $1 AND status = 'pending_payment'
	`
	tag, err := s.pool.Exec(ctx, query, orderID, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expected pending_payment", ErrInvalidStatusTransition)
	}
	return nil
}

// MarkPaid moves a pending order to paid and takes the purchased quantities
// out of stock in the same transaction.
func (s *OrderStore) MarkPaid(ctx context.Context, orderID uuid.UUID, customerEmail string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE orders
		SET status = $2, customer_email = $3, paid_at = NOW()
		WHERE id = $1 AND status = 'pending_payment'
		RETURNING items
	`
	var itemsJSON []byte
	err = tx.QueryRow(ctx, query, orderID, string(models.StatusPaid),
		pgtype.Text{String: customerEmail, Valid: customerEmail != ""},
	).Scan(&itemsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: expected pending_payment", ErrInvalidStatusTransition)
	}
	if err != nil {
		return err
	}

	var items []models.OrderItem
	if err := json.Unmarshal(itemsJSON, &items); err != nil {
		return fmt.Errorf("failed to decode order items: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`UPDATE products SET stock = GREATEST(stock - $2, 0), updated_at = NOW() WHERE id = $1`,
			item.ProductID, item.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *OrderStore) MarkExpired(ctx context.Context, orderID uuid.UUID) error {
	query := `
		UPDATE orders
		SET status = $2
		WHERE id = $1 AND status = 'pending_payment'
	`
	tag, err := s.pool.Exec(ctx, query, orderID, string(models.StatusExpired))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expected pending_payment", ErrInvalidStatusTransition)
	}
	return nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order     models.Order
		itemsJSON []byte
		status    string
		sessionID pgtype.Text
		email     pgtype.Text
		paidAt    pgtype.Timestamptz
	)
	if err := row.Scan(
		&order.ID,
		&itemsJSON,
		&order.SubtotalCents,
		&order.ShippingCents,
		&order.TotalCents,
		&order.Currency,
		&status,
		&sessionID,
		&email,
		&order.CreatedAt,
		&paidAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	order.Status = models.OrderStatus(status)
	order.StripeCheckoutSessionID = sessionID.String
	order.CustomerEmail = email.String
	if paidAt.Valid {
		order.PaidAt = paidAt.Time
	}
	return &order, nil
}
