package authz

import (
	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// Kind tipo de alcance resuelto para un usuario.
type Kind int

const (
	KindNone Kind = iota
	KindBusiness
	KindBranch
)

func (k Kind) String() string {
	switch k {
	case KindBusiness:
		return "business"
	case KindBranch:
		return "branch"
	default:
		return "none"
	}
}

// Scope alcance efectivo de un usuario: todo un negocio, una sola sucursal o ninguno.
// Un usuario tiene a lo sumo un alcance efectivo; la concesión de negocio tiene precedencia.
type Scope struct {
	Kind       Kind
	UserID     string
	BusinessID string
	BranchID   string // solo KindBranch
	Role       entity.Role
	Benefit    decimal.Decimal // solo KindBranch
}

// BusinessScope alcance de un owner/admin sobre todo el negocio.
func BusinessScope(userID, businessID string, role entity.Role) Scope {
	return Scope{Kind: KindBusiness, UserID: userID, BusinessID: businessID, Role: role}
}

// BranchScope alcance de un manager/cashier confinado a su sucursal.
func BranchScope(userID, branchID, businessID string, role entity.Role, benefit decimal.Decimal) Scope {
	return Scope{
		Kind:       KindBranch,
		UserID:     userID,
		BusinessID: businessID,
		BranchID:   branchID,
		Role:       role,
		Benefit:    benefit,
	}
}

// NoScope usuario autenticado sin concesiones activas.
func NoScope(userID string) Scope {
	return Scope{Kind: KindNone, UserID: userID}
}

func (s Scope) IsBusiness() bool { return s.Kind == KindBusiness }
func (s Scope) IsBranch() bool   { return s.Kind == KindBranch }
func (s Scope) IsNone() bool     { return s.Kind == KindNone }

// VisibleBranches devuelve las sucursales que el alcance puede leer.
// nil con ok=true significa "todas las del negocio".
func (s Scope) VisibleBranches() (branchIDs []string, ok bool) {
	switch s.Kind {
	case KindBusiness:
		return nil, true
	case KindBranch:
		return []string{s.BranchID}, true
	default:
		return nil, false
	}
}

// CanSeeBranch indica si el alcance puede leer datos de la sucursal.
// Para alcance de negocio no verifica que la sucursal pertenezca al negocio (eso es otro paso).
func (s Scope) CanSeeBranch(branchID string) bool {
	switch s.Kind {
	case KindBusiness:
		return true
	case KindBranch:
		return s.BranchID == branchID
	default:
		return false
	}
}
