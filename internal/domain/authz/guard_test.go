package authz_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

const (
	userID     = "u-1"
	businessID = "biz-1"
	branchA    = "branch-a"
	branchB    = "branch-b"
)

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_BusinessScopeActuaEnCualquierSucursal(t *testing.T) {
	for _, role := range []entity.Role{entity.RoleOwner, entity.RoleAdmin} {
		scope := authz.BusinessScope(userID, businessID, role)
		assert.NoError(t, authz.RequireRole(scope, authz.BusinessAdmins, ""), string(role))
		assert.NoError(t, authz.RequireRole(scope, authz.BusinessAdmins, branchA), string(role))
		assert.NoError(t, authz.RequireRole(scope, authz.CatalogRemovers, branchB), string(role))
	}
}

func TestRequireRole_BusinessScopeRechazadoSiElConjuntoNoIncluyeRolesDeNegocio(t *testing.T) {
	scope := authz.BusinessScope(userID, businessID, entity.RoleOwner)
	err := authz.RequireRole(scope, []entity.Role{entity.RoleCashier}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRequireRole_ManagerEnSuSucursal(t *testing.T) {
	scope := authz.BranchScope(userID, branchA, businessID, entity.RoleManager, decimal.Zero)
	assert.NoError(t, authz.RequireRole(scope, authz.CatalogRemovers, branchA))
	assert.NoError(t, authz.RequireRole(scope, authz.CatalogRemovers, ""))
}

// Un manager no puede operar sobre otra sucursal.
func TestRequireRole_ManagerEnOtraSucursalEsRechazado(t *testing.T) {
	scope := authz.BranchScope(userID, branchA, businessID, entity.RoleManager, decimal.Zero)
	err := authz.RequireRole(scope, authz.CatalogRemovers, branchB)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	var denied *authz.DeniedError
	require.True(t, errors.As(err, &denied))
	assert.Contains(t, denied.Reason, "propia sucursal")
}

func TestRequireRole_RolDeSucursalFueraDelConjunto(t *testing.T) {
	manager := authz.BranchScope(userID, branchA, businessID, entity.RoleManager, decimal.Zero)
	assert.ErrorIs(t, authz.RequireRole(manager, authz.BusinessAdmins, branchA), domain.ErrUnauthorized)

	cashier := authz.BranchScope(userID, branchA, businessID, entity.RoleCashier, decimal.Zero)
	assert.ErrorIs(t, authz.RequireRole(cashier, authz.CatalogRemovers, branchA), domain.ErrUnauthorized)
	assert.NoError(t, authz.RequireRole(cashier, authz.AnyStaff, branchA))
}

func TestRequireRole_NoScopeNuncaSatisface(t *testing.T) {
	scope := authz.NoScope(userID)
	for _, allowed := range [][]entity.Role{authz.BusinessAdmins, authz.CatalogRemovers, authz.AnyStaff} {
		assert.ErrorIs(t, authz.RequireRole(scope, allowed, ""), domain.ErrUnauthorized)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireBusiness y visibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireBusiness(t *testing.T) {
	scope := authz.BusinessScope(userID, businessID, entity.RoleAdmin)
	assert.NoError(t, authz.RequireBusiness(scope, businessID))
	assert.ErrorIs(t, authz.RequireBusiness(scope, "otro"), domain.ErrCrossTenant)
	assert.ErrorIs(t, authz.RequireBusiness(scope, ""), domain.ErrCrossTenant)
	assert.ErrorIs(t, authz.RequireBusiness(authz.NoScope(userID), ""), domain.ErrCrossTenant)
}

func TestScope_VisibleBranches(t *testing.T) {
	ids, ok := authz.BusinessScope(userID, businessID, entity.RoleOwner).VisibleBranches()
	assert.True(t, ok)
	assert.Nil(t, ids, "negocio ve todas las sucursales")

	ids, ok = authz.BranchScope(userID, branchA, businessID, entity.RoleCashier, decimal.Zero).VisibleBranches()
	assert.True(t, ok)
	assert.Equal(t, []string{branchA}, ids)

	_, ok = authz.NoScope(userID).VisibleBranches()
	assert.False(t, ok)
}

func TestScope_CanSeeBranch(t *testing.T) {
	branch := authz.BranchScope(userID, branchA, businessID, entity.RoleManager, decimal.Zero)
	assert.True(t, branch.CanSeeBranch(branchA))
	assert.False(t, branch.CanSeeBranch(branchB))
	assert.True(t, authz.BusinessScope(userID, businessID, entity.RoleAdmin).CanSeeBranch(branchB))
	assert.False(t, authz.NoScope(userID).CanSeeBranch(branchA))
	assert.Equal(t, "branch", branch.Kind.String())
}
