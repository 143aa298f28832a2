package authz

import (
	"fmt"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// Conjuntos de roles usados por las operaciones.
var (
	BusinessAdmins  = []entity.Role{entity.RoleOwner, entity.RoleAdmin}
	CatalogRemovers = []entity.Role{entity.RoleOwner, entity.RoleAdmin, entity.RoleManager}
	AnyStaff        = []entity.Role{entity.RoleOwner, entity.RoleAdmin, entity.RoleManager, entity.RoleCashier}
)

// DeniedError rechazo del guard. Reason es apto para mostrar al usuario.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrUnauthorized.Error(), e.Reason)
}

// Unwrap permite errors.Is(err, domain.ErrUnauthorized).
func (e *DeniedError) Unwrap() error { return domain.ErrUnauthorized }

func deny(reason string) error {
	return &DeniedError{Reason: reason}
}

// RequireRole verifica que el alcance satisfaga el conjunto de roles permitido.
//
//   - Alcance de negocio: satisface cualquier chequeo cuyo conjunto incluya owner o admin, sin importar
//     la sucursal destino.
//   - Alcance de sucursal: su rol debe estar en el conjunto y, si requiredBranchID no es vacío,
//     debe coincidir con su sucursal.
//   - Sin alcance: nunca satisface.
func RequireRole(scope Scope, allowed []entity.Role, requiredBranchID string) error {
	switch scope.Kind {
	case KindBusiness:
		if contains(allowed, entity.RoleOwner) || contains(allowed, entity.RoleAdmin) {
			return nil
		}
		return deny("la operación no está permitida para usuarios del negocio")
	case KindBranch:
		if !contains(allowed, scope.Role) {
			return deny(fmt.Sprintf("el rol %s no tiene permisos para esta operación", scope.Role))
		}
		if requiredBranchID != "" && requiredBranchID != scope.BranchID {
			return deny("solo puedes operar sobre tu propia sucursal")
		}
		return nil
	default:
		return deny("el usuario no tiene un negocio ni una sucursal asignada")
	}
}

// RequireBusiness verifica que el recurso (por su business_id) pertenezca al negocio del alcance.
func RequireBusiness(scope Scope, businessID string) error {
	if scope.IsNone() || businessID == "" || scope.BusinessID != businessID {
		return domain.ErrCrossTenant
	}
	return nil
}

func contains(roles []entity.Role, r entity.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}
