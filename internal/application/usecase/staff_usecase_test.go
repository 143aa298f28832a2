package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

func staffReq(email, branchID string) dto.CreateStaffRequest {
	return dto.CreateStaffRequest{
		Email:    email,
		Password: "clave-segura",
		Name:     "Nuevo",
		Phone:    "555",
		BranchID: branchID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateManager_CuentaPerfilYConcesion(t *testing.T) {
	f := newFixture(t)

	out, err := f.staff.CreateManager(context.Background(), owner, staffReq(" Nuevo@Bodega.com ", branchB))
	require.NoError(t, err)
	assert.Equal(t, "nuevo@bodega.com", out.Email)
	assert.Equal(t, "manager", out.Role)
	assert.Equal(t, "Norte", out.BranchName)
	assert.True(t, out.Benefit.IsZero())

	assert.True(t, f.store.HasAccount(out.ID))
	require.NotNil(t, f.store.User(out.ID))
	grant := f.store.BranchUserOf(out.ID)
	require.NotNil(t, grant)
	assert.Equal(t, branchB, grant.BranchID)
	assert.Equal(t, entity.RoleManager, grant.Role)
}

func TestCreateCashier_SucursalAjenaNoCreaNada(t *testing.T) {
	f := newFixture(t)

	_, err := f.staff.CreateCashier(context.Background(), admin, staffReq("x@bodega.com", foreignBr))
	assert.ErrorIs(t, err, domain.ErrCrossTenant)
	assert.Equal(t, 0, f.store.AccountCount())
}

func TestCreateStaff_SoloOwnerOAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.staff.CreateCashier(context.Background(), managerA, staffReq("x@bodega.com", branchA))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.staff.CreateAdmin(context.Background(), cashierA, staffReq("y@bodega.com", ""))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 0, f.store.AccountCount())
}

func TestCreateAdmin_ConcesionDeNegocio(t *testing.T) {
	f := newFixture(t)

	out, err := f.staff.CreateAdmin(context.Background(), owner, staffReq("admin2@bodega.com", ""))
	require.NoError(t, err)
	grant := f.store.BusinessUserOf(out.ID)
	require.NotNil(t, grant)
	assert.Equal(t, entity.RoleAdmin, grant.Role)
	assert.Equal(t, bizID, grant.BusinessID)
}

func TestCreateStaff_EmailRepetido(t *testing.T) {
	f := newFixture(t)

	_, err := f.staff.CreateCashier(context.Background(), owner, staffReq("repetido@bodega.com", branchA))
	require.NoError(t, err)

	_, err = f.staff.CreateCashier(context.Background(), owner, staffReq("repetido@bodega.com", branchB))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, 1, f.store.AccountCount())
}

func TestCreateStaff_CamposRequeridos(t *testing.T) {
	f := newFixture(t)

	req := staffReq("a@bodega.com", branchA)
	req.Name = " "
	_, err := f.staff.CreateCashier(context.Background(), owner, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Falla del perfil: se borra la cuenta.
func TestCreateStaff_FallaPerfilCompensaCuenta(t *testing.T) {
	f := newFixture(t)
	f.store.FailAlways("users.create", errDB)

	_, err := f.staff.CreateCashier(context.Background(), owner, staffReq("a@bodega.com", branchA))
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, 0, f.store.AccountCount())
	assert.Equal(t, 1, f.store.Calls("identity.delete"))
}

// Falla de la concesión: se borran perfil y cuenta.
func TestCreateStaff_FallaConcesionCompensaPerfilYCuenta(t *testing.T) {
	f := newFixture(t)
	f.store.FailAlways("memberships.create_branch_user", errDB)

	_, err := f.staff.CreateManager(context.Background(), owner, staffReq("a@bodega.com", branchA))
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, 0, f.store.AccountCount())
	assert.Equal(t, 1, f.store.Calls("users.delete"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado y edición
// ──────────────────────────────────────────────────────────────────────────────

func TestListStaff_SoloDelNegocio(t *testing.T) {
	f := newFixture(t)

	all, err := f.staff.List(context.Background(), owner, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Carla", all[0].Name)
	assert.Equal(t, "Dario", all[1].Name)
	assert.Equal(t, "Centro", all[1].BranchName)

	none, err := f.staff.List(context.Background(), owner, branchB)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.staff.List(context.Background(), owner, foreignBr)
	assert.ErrorIs(t, err, domain.ErrCrossTenant)
}

func TestUpdateStaff_RolYBeneficio(t *testing.T) {
	f := newFixture(t)

	out, err := f.staff.Update(context.Background(), admin, "u-cashier", dto.UpdateStaffRequest{
		Name:    ptr("Darío"),
		Role:    ptr("manager"),
		Benefit: ptr(decimal.NewFromInt(30)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Darío", out.Name)
	assert.Equal(t, "manager", out.Role)

	grant := f.store.BranchUserOf("u-cashier")
	require.NotNil(t, grant)
	assert.Equal(t, entity.RoleManager, grant.Role)
	assert.True(t, grant.Benefit.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "Darío", f.store.User("u-cashier").Name)
}

func TestUpdateStaff_Validaciones(t *testing.T) {
	f := newFixture(t)

	_, err := f.staff.Update(context.Background(), owner, "u-cashier", dto.UpdateStaffRequest{Role: ptr("owner")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.staff.Update(context.Background(), owner, "u-cashier", dto.UpdateStaffRequest{Benefit: ptr(decimal.NewFromInt(-1))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.staff.Update(context.Background(), owner, "u-ajeno", dto.UpdateStaffRequest{Name: ptr("Mío")})
	assert.ErrorIs(t, err, domain.ErrCrossTenant)

	_, err = f.staff.Update(context.Background(), owner, "u-admin", dto.UpdateStaffRequest{Name: ptr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResetBenefit_DejaEnCero(t *testing.T) {
	f := newFixture(t)

	out, err := f.staff.ResetBenefit(context.Background(), owner, "u-cashier")
	require.NoError(t, err)
	assert.True(t, out.Benefit.IsZero())
	assert.True(t, f.store.BranchUserOf("u-cashier").Benefit.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Baja
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteStaff_BorraConcesionPerfilYCuenta(t *testing.T) {
	f := newFixture(t)
	created, err := f.staff.CreateCashier(context.Background(), owner, staffReq("temp@bodega.com", branchB))
	require.NoError(t, err)

	require.NoError(t, f.staff.Delete(context.Background(), admin, created.ID))
	assert.Nil(t, f.store.BranchUserOf(created.ID))
	assert.Nil(t, f.store.User(created.ID))
	assert.False(t, f.store.HasAccount(created.ID))
}

func TestDeleteStaff_FallaEnLaTransaccionRestaura(t *testing.T) {
	f := newFixture(t)
	f.store.FailAlways("users.delete", errDB)

	err := f.staff.Delete(context.Background(), owner, "u-cashier")
	assert.ErrorIs(t, err, errDB)
	assert.NotNil(t, f.store.BranchUserOf("u-cashier"))
	assert.NotNil(t, f.store.User("u-cashier"))
	assert.Equal(t, 0, f.store.Calls("identity.delete"))
}

func TestDeleteStaff_FallaDeCuentaNoRevierte(t *testing.T) {
	f := newFixture(t)
	f.store.FailAlways("identity.delete", errDB)

	require.NoError(t, f.staff.Delete(context.Background(), owner, "u-manager"))
	assert.Nil(t, f.store.BranchUserOf("u-manager"))
	assert.Nil(t, f.store.User("u-manager"))
}

func TestDeleteStaff_Restricciones(t *testing.T) {
	f := newFixture(t)

	err := f.staff.Delete(context.Background(), admin, "u-owner")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.staff.Delete(context.Background(), admin, "u-admin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.staff.Delete(context.Background(), owner, "u-ajeno")
	assert.ErrorIs(t, err, domain.ErrCrossTenant)

	err = f.staff.Delete(context.Background(), owner, "u-inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.staff.Delete(context.Background(), managerA, "u-cashier")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.NotNil(t, f.store.User("u-owner"))
	assert.NotNil(t, f.store.BranchUserOf("u-cashier"))
}
