package handlers

import (
	"net/http"

	"github.com/electrostore/electrostore/internal/models"
)

func (h *Handlers) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.catalog.ListActiveBanners(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, nonNilBanners(banners))
}

func (h *Handlers) AdminListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.catalog.ListBanners(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, nonNilBanners(banners))
}

func nonNilBanners(banners []models.Banner) []models.Banner {
	if banners == nil {
		return []models.Banner{}
	}
	return banners
}

func (h *Handlers) AdminCreateBanner(w http.ResponseWriter, r *http.Request) {
	var input models.BannerInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}
	banner, err := h.catalog.CreateBanner(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, banner)
}

func (h *Handlers) AdminSetBannerVisibility(w http.ResponseWriter, r *http.Request) {
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
	if err := h.catalog.SetBannerActive(r.Context(), id, active); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AdminDeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.catalog.DeleteBanner(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
