package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role rol de un usuario dentro del negocio o de una sucursal.
type Role string

// Roles de negocio (alcance: todo el negocio) y de sucursal (alcance: una sucursal).
const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// IsBusinessRole indica si el rol se otorga a nivel de negocio.
func (r Role) IsBusinessRole() bool {
	return r == RoleOwner || r == RoleAdmin
}

// IsBranchRole indica si el rol se otorga a nivel de sucursal.
func (r Role) IsBranchRole() bool {
	return r == RoleManager || r == RoleCashier
}

// BusinessUser concesión a nivel de negocio (owner/admin).
type BusinessUser struct {
	ID         string
	BusinessID string
	UserID     string
	Role       Role
	IsActive   bool
	CreatedAt  time.Time
}

// BranchUser concesión a nivel de sucursal (manager/cashier).
// BusinessID no es columna de branches_users: se obtiene del join con branches.
type BranchUser struct {
	ID         string
	BranchID   string
	BusinessID string
	UserID     string
	Role       Role
	IsActive   bool
	Benefit    decimal.Decimal // acumulado monetario, se puede reiniciar a cero
	CreatedAt  time.Time
}
