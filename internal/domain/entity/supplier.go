package entity

import "time"

// Supplier proveedor de un negocio; las compras lo referencian.
type Supplier struct {
	ID         string
	BusinessID string
	Name       string
	Phone      string
	Email      string
	Address    string
	IsActive   bool
	CreatedAt  time.Time
}
