package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest alta de un proveedor del negocio.
type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"max=300"`
}

// UpdateSupplierRequest actualización parcial de un proveedor.
type UpdateSupplierRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=300"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// PurchaseItemRequest renglón de una compra: cantidad en la presentación indicada.
type PurchaseItemRequest struct {
	PresentationID string          `json:"product_presentation_id" validate:"required,uuid"`
	Quantity       int64           `json:"quantity" validate:"gt=0"`
	UnitCost       decimal.Decimal `json:"unit_cost" validate:"gte=0"`
}

// CreatePurchaseRequest orden de compra para una sucursal.
type CreatePurchaseRequest struct {
	BranchID   string                `json:"branch_id" validate:"required,uuid"`
	SupplierID string                `json:"supplier_id" validate:"required,uuid"`
	Notes      string                `json:"notes" validate:"max=1000"`
	Items      []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CancelPurchaseRequest motivo opcional de cancelación.
type CancelPurchaseRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// PurchaseListRequest filtros de listado de compras.
type PurchaseListRequest struct {
	PageRequest
	BranchID string `query:"branch_id" validate:"omitempty,uuid"`
	Status   string `query:"status" validate:"omitempty,oneof=pending approved received cancelled"`
}

// PurchaseItemResponse renglón de una compra.
type PurchaseItemResponse struct {
	ID             string          `json:"id"`
	PresentationID string          `json:"product_presentation_id"`
	Quantity       int64           `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse salida de una compra; Items solo viene en el detalle y al crear.
type PurchaseResponse struct {
	ID               string                 `json:"id"`
	BusinessID       string                 `json:"business_id"`
	BranchID         string                 `json:"branch_id"`
	SupplierID       string                 `json:"supplier_id"`
	CreatedByUserID  string                 `json:"created_by,omitempty"`
	ApprovedByUserID string                 `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time             `json:"approved_at,omitempty"`
	ReceivedAt       *time.Time             `json:"received_at,omitempty"`
	Status           string                 `json:"status"`
	Notes            string                 `json:"notes,omitempty"`
	Total            decimal.Decimal        `json:"total"`
	CreatedAt        time.Time              `json:"created_at"`
	Items            []PurchaseItemResponse `json:"items,omitempty"`
}

// PurchaseListResponse página de compras.
type PurchaseListResponse struct {
	Items      []PurchaseResponse `json:"items"`
	Pagination PageResponse       `json:"pagination"`
}

// ReceivePurchaseResponse stock resultante de cada producto tocado por la recepción.
type ReceivePurchaseResponse struct {
	Purchase PurchaseResponse     `json:"purchase"`
	Stock    []ReceivedStockEntry `json:"stock"`
}

// ReceivedStockEntry unidades sumadas a un producto y su stock final.
type ReceivedStockEntry struct {
	ProductID string `json:"product_id"`
	Added     int64  `json:"added"`
	Stock     int64  `json:"stock"`
}

// PurchaseStatsResponse conteo por estado y monto total (sin canceladas).
type PurchaseStatsResponse struct {
	Pending     int             `json:"pending"`
	Approved    int             `json:"approved"`
	Received    int             `json:"received"`
	Cancelled   int             `json:"cancelled"`
	Total       int             `json:"total"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
