package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/application/access"
	"github.com/marko-code-lab/noiddea/internal/application/auth"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/testutil/memstore"
	"github.com/marko-code-lab/noiddea/pkg/jwt"
)

const secret = "secreto-de-prueba"

var errDB = errors.New("conexión perdida")

func newAuth(s *memstore.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(
		s.Identity(), s.Users(), s.Businesses(), s.Memberships(),
		access.NewResolver(s.Memberships()),
		ports.NopMetrics{},
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "noiddea"},
		zerolog.Nop(),
	)
}

func signupReq() dto.SignupRequest {
	return dto.SignupRequest{
		Email:        " Ana@Example.com ",
		Password:     "clave-segura",
		Name:         "Ana",
		BusinessName: "Bodega Ana",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Signup
// ──────────────────────────────────────────────────────────────────────────────

func TestSignup_CreaCuentaPerfilNegocioYOwner(t *testing.T) {
	s := memstore.New()
	uc := newAuth(s)

	out, err := uc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	assert.True(t, s.HasAccount(out.UserID))
	user := s.User(out.UserID)
	require.NotNil(t, user)
	assert.Equal(t, "ana@example.com", user.Email)

	business := s.Business(out.BusinessID)
	require.NotNil(t, business)
	assert.Equal(t, entity.TaxIDPending, business.TaxID)
	assert.Equal(t, entity.DefaultTheme, business.Theme)

	grant := s.BusinessUserOf(out.UserID)
	require.NotNil(t, grant)
	assert.Equal(t, entity.RoleOwner, grant.Role)
	assert.True(t, grant.IsActive)
}

func TestSignup_NombreDeNegocioTomado(t *testing.T) {
	s := memstore.New()
	s.PutBusiness(&entity.Business{ID: "b", Name: "Bodega Ana"})

	_, err := newAuth(s).Signup(context.Background(), signupReq())
	assert.ErrorIs(t, err, domain.ErrBusinessNameTaken)
	assert.Equal(t, 0, s.AccountCount())
}

func TestSignup_FallaDeLaConcesionDeshaceTodo(t *testing.T) {
	s := memstore.New()
	s.FailAlways("memberships.create_business_user", errDB)

	_, err := newAuth(s).Signup(context.Background(), signupReq())
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, 0, s.AccountCount())
	assert.Equal(t, 0, s.BusinessCount())
	assert.Equal(t, 1, s.Calls("users.delete"))
}

func TestSignup_FallaDelPerfilBorraLaCuenta(t *testing.T) {
	s := memstore.New()
	s.FailAlways("users.create", errDB)

	_, err := newAuth(s).Signup(context.Background(), signupReq())
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, 0, s.AccountCount())
	assert.Equal(t, 0, s.Calls("businesses.create"))
}

func TestSignup_EmailRepetido(t *testing.T) {
	s := memstore.New()
	uc := newAuth(s)
	_, err := uc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	again := signupReq()
	again.BusinessName = "Otra bodega"
	_, err = uc.Signup(context.Background(), again)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Me
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_DevuelveTokenYAlcance(t *testing.T) {
	s := memstore.New()
	uc := newAuth(s)
	signed, err := uc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, "business", out.Scope.Kind)
	assert.Equal(t, "owner", out.Scope.Role)
	assert.Equal(t, signed.BusinessID, out.Scope.BusinessID)

	userID, _, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, signed.UserID, userID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	s := memstore.New()
	uc := newAuth(s)
	_, err := uc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBusiness
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBusiness_UsuarioSinNegocio(t *testing.T) {
	s := memstore.New()
	s.PutUser(&entity.User{ID: "u-1", Email: "x@example.com"})

	out, err := newAuth(s).CreateBusiness(context.Background(), authz.NoScope("u-1"), dto.CreateBusinessRequest{Name: " Kiosko "})
	require.NoError(t, err)
	assert.Equal(t, "Kiosko", out.Name)
	assert.Equal(t, entity.TaxIDPending, out.TaxID)
	require.NotNil(t, s.BusinessUserOf("u-1"))
}

func TestCreateBusiness_RechazaSiYaTieneNegocio(t *testing.T) {
	s := memstore.New()
	s.PutBusinessUser(&entity.BusinessUser{ID: "g", BusinessID: "b", UserID: "u-1", Role: entity.RoleAdmin, IsActive: false})

	_, err := newAuth(s).CreateBusiness(context.Background(), authz.NoScope("u-1"), dto.CreateBusinessRequest{Name: "Kiosko"})
	assert.ErrorIs(t, err, domain.ErrAlreadyHasBusiness)

	_, err = newAuth(s).CreateBusiness(context.Background(), authz.BusinessScope("u-2", "b", entity.RoleOwner), dto.CreateBusinessRequest{Name: "Kiosko"})
	assert.ErrorIs(t, err, domain.ErrAlreadyHasBusiness)
}

func TestCreateBusiness_FallaDeLaConcesionBorraElNegocio(t *testing.T) {
	s := memstore.New()
	s.FailAlways("memberships.create_business_user", errDB)

	_, err := newAuth(s).CreateBusiness(context.Background(), authz.NoScope("u-1"), dto.CreateBusinessRequest{Name: "Kiosko"})
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, 0, s.BusinessCount())
}
