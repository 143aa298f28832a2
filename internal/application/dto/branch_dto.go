package dto

import "time"

// CreateBranchRequest entrada para crear una sucursal.
type CreateBranchRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Location string `json:"location" validate:"required,max=300"`
	Phone    string `json:"phone" validate:"max=30"`
}

// UpdateBranchRequest entrada para actualizar una sucursal.
type UpdateBranchRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location *string `json:"location" validate:"omitempty,max=300"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}
