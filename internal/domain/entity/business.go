package entity

import "time"

// TaxIDPending valor centinela de tax_id mientras el negocio no ha validado su identificación tributaria.
const TaxIDPending = "Pendiente"

// DefaultTheme tema visual asignado al crear el negocio.
const DefaultTheme = "default"

// Business representa el tenant raíz del sistema. Name se fija al crear y nunca se modifica.
type Business struct {
	ID          string
	Name        string
	TaxID       string
	Description string
	Website     string
	Theme       string
	CreatedAt   time.Time
}
