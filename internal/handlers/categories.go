package handlers

import (
	"net/http"

	"github.com/electrostore/electrostore/internal/models"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	h.writeJSON(w, r, http.StatusOK, categories)
}

func (h *Handlers) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var input models.CategoryInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, category)
}
