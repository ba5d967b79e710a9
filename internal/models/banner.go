package models

import (
	"time"

	"github.com/google/uuid"
)

// Banner is a promo slot on the storefront home page.
type Banner struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	ImageURL  string    `json:"image_url"`
	LinkURL   string    `json:"link_url"`
	Position  int       `json:"position"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type BannerInput struct {
	Title    string `json:"title" validate:"required,max=120"`
	Subtitle string `json:"subtitle" validate:"max=240"`
	ImageURL string `json:"image_url" validate:"required,url"`
	LinkURL  string `json:"link_url" validate:"omitempty,url"`
	Position int    `json:"position" validate:"gte=0"`
	Active   bool   `json:"is_active"`
}
