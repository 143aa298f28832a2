package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus estado de una orden de compra.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseApproved  PurchaseStatus = "approved"
	PurchaseReceived  PurchaseStatus = "received"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// IsValid indica si s es un estado conocido.
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchasePending, PurchaseApproved, PurchaseReceived, PurchaseCancelled:
		return true
	}
	return false
}

// Purchase orden de compra a un proveedor para una sucursal.
// Solo al recibirla se suma su mercadería al stock de los productos.
type Purchase struct {
	ID               string
	BusinessID       string
	BranchID         string
	SupplierID       string
	CreatedByUserID  string
	ApprovedByUserID string
	ApprovedAt       *time.Time
	ReceivedAt       *time.Time
	Status           PurchaseStatus
	Notes            string
	Total            decimal.Decimal
	CreatedAt        time.Time
}

// PurchaseItem renglón de una compra. Quantity se expresa en la presentación comprada.
type PurchaseItem struct {
	ID             string
	PurchaseID     string
	PresentationID string
	Quantity       int64
	UnitCost       decimal.Decimal
	Subtotal       decimal.Decimal
}

// PurchaseFilter criterios de listado de compras. BranchIDs vacío = todo el negocio.
type PurchaseFilter struct {
	BusinessID string
	BranchIDs  []string
	Status     PurchaseStatus
	Limit      int
	Offset     int
}

// PurchaseStats conteo por estado y monto total de las compras no canceladas.
type PurchaseStats struct {
	Pending     int
	Approved    int
	Received    int
	Cancelled   int
	TotalAmount decimal.Decimal
}
