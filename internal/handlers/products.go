package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/electrostore/electrostore/internal/models"
	"github.com/electrostore/electrostore/internal/services"
)

const (
	maxImageBytes      = 10 << 20 // 10 MB
	imageFormFieldName = "image"
)

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := storefrontFilterFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	products, err := h.catalog.ListStorefront(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, products)
}

func storefrontFilterFromQuery(r *http.Request) (services.StorefrontFilter, error) {
	query := r.URL.Query()
	filter := services.StorefrontFilter{
		Search: strings.TrimSpace(query.Get("q")),
	}

	if raw := strings.TrimSpace(query.Get("category_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid category_id %q", services.ErrInvalidInput, raw)
		}
		filter.CategoryID = &id
	}
	if raw := strings.TrimSpace(query.Get("offers_only")); raw != "" {
		offersOnly, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid offers_only %q", services.ErrInvalidInput, raw)
		}
		filter.OffersOnly = offersOnly
	}

	var err error
	if filter.Limit, err = queryInt(query.Get("limit"), "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(query.Get("offset"), "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryInt(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", services.ErrInvalidInput, name, raw)
	}
	return value, nil
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, product)
}

func (h *Handlers) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAll(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	h.writeJSON(w, r, http.StatusOK, products)
}

func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input models.ProductInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, product)
}

func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var input models.ProductInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, product)
}

func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AdminSetProductVisibility(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	active, err := decodeVisibility(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.catalog.SetProductActive(r.Context(), id, active); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminUploadProductImage accepts a multipart "image" field and appends the
// stored URL to the product.
func (h *Handlers) AdminUploadProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		if statusForError(err) != http.StatusRequestEntityTooLarge {
			err = fmt.Errorf("%w: expected multipart form: %w", services.ErrInvalidInput, err)
		}
		h.writeError(w, r, err)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.loggerFromContext(r.Context()).Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile(imageFormFieldName)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: missing %q file", services.ErrInvalidInput, imageFormFieldName))
		return
	}
	defer file.Close()

	product, err := h.catalog.AddProductImage(r.Context(), id, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, product)
}
