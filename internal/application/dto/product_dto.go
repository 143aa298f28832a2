package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PresentationRequest presentación adicional de un producto. Sin id = nueva.
type PresentationRequest struct {
	ID      string           `json:"id,omitempty"`
	Variant string           `json:"variant" validate:"required,max=100"`
	Units   int              `json:"units" validate:"gt=0"`
	Price   *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// CreateProductRequest entrada para crear un producto en una sucursal.
type CreateProductRequest struct {
	BranchID      string                `json:"branch_id" validate:"required,uuid"`
	Name          string                `json:"name" validate:"required,min=1,max=200"`
	Description   string                `json:"description"`
	Brand         string                `json:"brand"`
	Barcode       string                `json:"barcode"`
	SKU           string                `json:"sku"`
	Expiration    *string               `json:"expiration"`
	Cost          decimal.Decimal       `json:"cost" validate:"gte=0"`
	Price         decimal.Decimal       `json:"price" validate:"gte=0"`
	Stock         *int64                `json:"stock" validate:"omitempty,gte=0"`
	Bonification  *decimal.Decimal      `json:"bonification" validate:"omitempty,gte=0"`
	Presentations []PresentationRequest `json:"presentations" validate:"dive"`
}

// CreateProductResponse resultado de crear un producto.
type CreateProductResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
}

// UpdateProductRequest actualización parcial: solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Expiration   *string          `json:"expiration"`
	Brand        *string          `json:"brand"`
	Barcode      *string          `json:"barcode"`
	SKU          *string          `json:"sku"`
	Stock        *int64           `json:"stock" validate:"omitempty,gte=0"`
	Cost         *decimal.Decimal `json:"cost" validate:"omitempty,gte=0"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Bonification *decimal.Decimal `json:"bonification" validate:"omitempty,gte=0"`
	IsActive     *bool            `json:"is_active"`
}

// UpdatePresentationsRequest reemplazo completo de las presentaciones (sin "unidad").
type UpdatePresentationsRequest struct {
	Presentations []PresentationRequest `json:"presentations" validate:"dive"`
}

// UpdatePresentationRequest edición de una presentación individual.
type UpdatePresentationRequest struct {
	Variant *string          `json:"variant" validate:"omitempty,min=1,max=100"`
	Units   *int             `json:"units" validate:"omitempty,gt=0"`
	Price   *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

// DeleteProductsRequest borrado (lógico) masivo.
type DeleteProductsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// DeleteProductsResponse resultado del borrado masivo.
type DeleteProductsResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// PresentationResponse salida de una presentación.
type PresentationResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Variant   string           `json:"variant"`
	Units     int              `json:"units"`
	Price     *decimal.Decimal `json:"price"`
	IsActive  bool             `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string                 `json:"id"`
	BranchID      string                 `json:"branch_id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Brand         string                 `json:"brand"`
	Barcode       string                 `json:"barcode"`
	SKU           string                 `json:"sku"`
	Expiration    *time.Time             `json:"expiration"`
	Cost          decimal.Decimal        `json:"cost"`
	Price         decimal.Decimal        `json:"price"`
	Stock         int64                  `json:"stock"`
	Bonification  decimal.Decimal        `json:"bonification"`
	IsActive      bool                   `json:"is_active"`
	Presentations []PresentationResponse `json:"presentations,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// ProductListRequest filtros del listado de productos.
type ProductListRequest struct {
	PageRequest
	BranchID string `query:"branch_id" validate:"omitempty,uuid"`
	Search   string `query:"search" validate:"max=100"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Pagination PageResponse      `json:"pagination"`
}
