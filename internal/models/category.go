package models

import "github.com/google/uuid"

type Category struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type CategoryInput struct {
	Name     string     `json:"name" validate:"required,max=120"`
	ParentID *uuid.UUID `json:"parent_id"`
}
