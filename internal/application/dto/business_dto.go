package dto

import "time"

// CreateBusinessRequest entrada para crear el negocio de un usuario que aún no tiene uno.
type CreateBusinessRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	TaxID       string `json:"tax_id" validate:"max=50"`
	Description string `json:"description"`
	Website     string `json:"website" validate:"omitempty,url"`
}

// UpdateBusinessRequest el nombre es inmutable: si viene debe coincidir con el actual.
type UpdateBusinessRequest struct {
	Name        *string `json:"name"`
	TaxID       *string `json:"tax_id" validate:"omitempty,max=50"`
	Description *string `json:"description"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Theme       *string `json:"theme" validate:"omitempty,max=50"`
}

// BusinessResponse salida de un negocio.
type BusinessResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TaxID       string    `json:"tax_id"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Theme       string    `json:"theme"`
	CreatedAt   time.Time `json:"created_at"`
}
