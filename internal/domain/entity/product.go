package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una sucursal.
// Stock es un contador en la fila del producto; Version se incrementa en cada escritura de stock
// y se usa como compare-and-swap.
type Product struct {
	ID              string
	BranchID        string
	Name            string
	Description     string
	Brand           string
	Barcode         string
	SKU             string
	Expiration      *time.Time
	Cost            decimal.Decimal
	Price           decimal.Decimal
	Stock           int64
	Bonification    decimal.Decimal
	IsActive        bool
	CreatedByUserID string
	Version         int64
	CreatedAt       time.Time
}

// ProductFilter criterios de listado de productos.
// BranchIDs vacío significa todas las sucursales del negocio.
type ProductFilter struct {
	BusinessID string
	BranchIDs  []string
	Search     string
	Limit      int
	Offset     int
}
