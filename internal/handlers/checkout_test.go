package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/electrostore/electrostore/internal/catalog"
	"github.com/electrostore/electrostore/internal/models"
)

func TestQuoteCart(t *testing.T) {
	t.Parallel()

	tv := &models.Product{ID: uuid.New(), Name: "Smart TV", Price: 1000, Stock: 3, Active: true}
	env := newTestEnv(t, tv)

	body := `{"items":[{"product_id":"` + tv.ID.String() + `","quantity":2}]}`
	rec := httptest.NewRecorder()
	env.handlers.QuoteCart(rec, httptest.NewRequest(http.MethodPost, "/api/cart/quote", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	quote := decodeBody[catalog.CartQuote](t, rec.Body)
	if quote.Subtotal.String() != "2000" || quote.Shipping.String() != "5000" || quote.Total.String() != "7000" {
		t.Fatalf("unexpected quote: subtotal=%s shipping=%s total=%s", quote.Subtotal, quote.Shipping, quote.Total)
	}

	body = `{"items":[{"product_id":"` + tv.ID.String() + `","quantity":4}]}`
	rec = httptest.NewRecorder()
	env.handlers.QuoteCart(rec, httptest.NewRequest(http.MethodPost, "/api/cart/quote", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d above stock, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestCheckout_PaymentsDisabled(t *testing.T) {
	t.Parallel()

	tv := &models.Product{ID: uuid.New(), Name: "Smart TV", Price: 1000, Stock: 3, Active: true}
	env := newTestEnv(t, tv)

	body := `{"items":[{"product_id":"` + tv.ID.String() + `","quantity":1}],"email":"ana@example.com"}`
	rec := httptest.NewRecorder()
	env.handlers.Checkout(rec, httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}
