package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/application/access"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

type fakeGrants struct {
	business    *entity.BusinessUser
	branch      *entity.BranchUser
	businessErr error
	branchErr   error
}

func (f *fakeGrants) FindActiveBusinessUser(_ context.Context, _ string) (*entity.BusinessUser, error) {
	return f.business, f.businessErr
}

func (f *fakeGrants) FindActiveBranchUser(_ context.Context, _ string) (*entity.BranchUser, error) {
	return f.branch, f.branchErr
}

var errDB = errors.New("conexión rechazada")

func TestResolve_BusinessScope(t *testing.T) {
	r := access.NewResolver(&fakeGrants{
		business: &entity.BusinessUser{BusinessID: "biz", UserID: "u", Role: entity.RoleOwner, IsActive: true},
	})
	scope, err := r.Resolve(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, authz.KindBusiness, scope.Kind)
	assert.Equal(t, "biz", scope.BusinessID)
	assert.Equal(t, entity.RoleOwner, scope.Role)
	assert.Empty(t, scope.BranchID)
}

func TestResolve_BranchScope(t *testing.T) {
	r := access.NewResolver(&fakeGrants{
		branch: &entity.BranchUser{BranchID: "b1", BusinessID: "biz", UserID: "u", Role: entity.RoleCashier, Benefit: decimal.NewFromInt(15)},
	})
	scope, err := r.Resolve(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, authz.KindBranch, scope.Kind)
	assert.Equal(t, "b1", scope.BranchID)
	assert.Equal(t, "biz", scope.BusinessID)
	assert.True(t, scope.Benefit.Equal(decimal.NewFromInt(15)))
}

// Con ambas concesiones gana la de negocio.
func TestResolve_PrecedenciaDeNegocio(t *testing.T) {
	r := access.NewResolver(&fakeGrants{
		business: &entity.BusinessUser{BusinessID: "biz", Role: entity.RoleAdmin},
		branch:   &entity.BranchUser{BranchID: "b1", BusinessID: "biz", Role: entity.RoleManager},
	})
	scope, err := r.Resolve(context.Background(), "u")
	require.NoError(t, err)
	assert.True(t, scope.IsBusiness())
	assert.Equal(t, entity.RoleAdmin, scope.Role)
}

func TestResolve_SinConcesiones(t *testing.T) {
	scope, err := access.NewResolver(&fakeGrants{}).Resolve(context.Background(), "u")
	require.NoError(t, err)
	assert.True(t, scope.IsNone())
	assert.Equal(t, "u", scope.UserID)
}

func TestResolve_ErrorDeInfraestructuraNoEsNoScope(t *testing.T) {
	_, err := access.NewResolver(&fakeGrants{businessErr: errDB}).Resolve(context.Background(), "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, errDB)

	_, err = access.NewResolver(&fakeGrants{branchErr: errDB}).Resolve(context.Background(), "u")
	assert.ErrorIs(t, err, errDB)
}

// El error de la consulta de sucursal no importa si ya hay concesión de negocio.
func TestResolve_ErrorDeSucursalIgnoradoConNegocio(t *testing.T) {
	r := access.NewResolver(&fakeGrants{
		business:  &entity.BusinessUser{BusinessID: "biz", Role: entity.RoleOwner},
		branchErr: errDB,
	})
	scope, err := r.Resolve(context.Background(), "u")
	require.NoError(t, err)
	assert.True(t, scope.IsBusiness())
}

func TestResolve_SinUsuario(t *testing.T) {
	_, err := access.NewResolver(&fakeGrants{}).Resolve(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
