package entity

import "time"

// Branch representa una sucursal; pertenece a exactamente un negocio.
// Inventario y personal operativo se asignan por sucursal.
type Branch struct {
	ID         string
	BusinessID string
	Name       string
	Location   string
	Phone      string
	CreatedAt  time.Time
}
