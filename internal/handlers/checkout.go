package handlers

import (
	"net/http"

	"github.com/electrostore/electrostore/internal/services"
)

type cartRequest struct {
	Items []services.CartItem `json:"items"`
}

func (h *Handlers) QuoteCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	quote, err := h.checkout.QuoteCart(r.Context(), req.Items)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, quote)
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.checkout.Checkout(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, result)
}
