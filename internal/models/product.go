package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	CompareAtPrice *float64          `json:"compare_at_price"`
	Stock          int               `json:"stock"`
	CategoryID     *uuid.UUID        `json:"category_id"`
	Images         []string          `json:"images"`
	MainImage      *string           `json:"main_image"`
	Specs          map[string]string `json:"specifications"`
	Active         bool              `json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ProductInput is the creation payload shared by the admin form and the
// bulk importer. Updates overwrite every field.
type ProductInput struct {
	Name           string            `json:"name" validate:"required,max=200"`
	Description    string            `json:"description" validate:"max=5000"`
	Price          float64           `json:"price" validate:"gte=0"`
	CompareAtPrice *float64          `json:"compare_at_price" validate:"omitempty,gte=0"`
	Stock          int               `json:"stock" validate:"gte=0"`
	CategoryID     *uuid.UUID        `json:"category_id"`
	Images         []string          `json:"images" validate:"dive,url"`
	MainImage      *string           `json:"main_image" validate:"omitempty,url"`
	Specs          map[string]string `json:"specifications"`
	Active         bool              `json:"is_active"`
}

// ToProduct copies the input onto a product with the given id.
func (in ProductInput) ToProduct(id uuid.UUID) *Product {
	images := in.Images
	if images == nil {
		images = []string{}
	}
	specs := in.Specs
	if specs == nil {
		specs = map[string]string{}
	}
	return &Product{
		ID:             id,
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		CompareAtPrice: in.CompareAtPrice,
		Stock:          in.Stock,
		CategoryID:     in.CategoryID,
		Images:         images,
		MainImage:      in.MainImage,
		Specs:          specs,
		Active:         in.Active,
	}
}
