package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	apphttp "github.com/marko-code-lab/noiddea/internal/interfaces/http"
	pkgjwt "github.com/marko-code-lab/noiddea/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testBranchID  = "00000000-0000-0000-0000-0000000000b1"
	testBizID     = "00000000-0000-0000-0000-0000000000a1"
	testEmail     = "ana@example.com"
	testIssuer    = "noiddea-test"
	testExpMin    = 60
)

// fakeResolver devuelve siempre el mismo alcance o error.
type fakeResolver struct {
	scope authz.Scope
	err   error
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, userID string) (authz.Scope, error) {
	f.calls++
	if f.err != nil {
		return authz.Scope{}, f.err
	}
	scope := f.scope
	scope.UserID = userID
	return scope, nil
}

// buildTestApp app mínima con AuthMiddleware + ScopeMiddleware y un handler que devuelve lo resuelto.
func buildTestApp(resolver apphttp.ScopeResolver) *fiber.App {
	app := apphttp.NewApp(apphttp.AppConfig{Name: "test", Log: zerolog.Nop()})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.ScopeMiddleware(resolver),
		func(c *fiber.Ctx) error {
			scope := apphttp.GetScope(c)
			return c.JSON(fiber.Map{
				"user_id":   apphttp.GetUserID(c),
				"email":     apphttp.GetEmail(c),
				"kind":      scope.Kind.String(),
				"role":      string(scope.Role),
				"branch_id": scope.BranchID,
			})
		},
	)
	return app
}

func bearer(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doProtected(t *testing.T, app *fiber.App, authHeader string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(body)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	resp, body := doProtected(t, buildTestApp(&fakeResolver{}), "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	resp, body := doProtected(t, buildTestApp(&fakeResolver{}), "Token abc")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp, body := doProtected(t, buildTestApp(&fakeResolver{}), "Bearer token.invalido.aqui")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, testIssuer, -1)
	require.NoError(t, err)

	resp, _ := doProtected(t, buildTestApp(&fakeResolver{}), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SecretIncorrecto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, testEmail, testIssuer, testExpMin)
	require.NoError(t, err)

	resp, _ := doProtected(t, buildTestApp(&fakeResolver{}), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// ScopeMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestScopeMiddleware_ResuelveAlcanceDeSucursal(t *testing.T) {
	resolver := &fakeResolver{scope: authz.BranchScope("", testBranchID, testBizID, entity.RoleCashier, decimal.Zero)}
	resp, body := doProtected(t, buildTestApp(resolver), bearer(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, testUserID, got["user_id"])
	assert.Equal(t, testEmail, got["email"])
	assert.Equal(t, "branch", got["kind"])
	assert.Equal(t, "cashier", got["role"])
	assert.Equal(t, testBranchID, got["branch_id"])
	assert.Equal(t, 1, resolver.calls)
}

func TestScopeMiddleware_SinConcesionesSigueConNoScope(t *testing.T) {
	resolver := &fakeResolver{scope: authz.NoScope("")}
	resp, body := doProtected(t, buildTestApp(resolver), bearer(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"kind":"none"`)
}

func TestScopeMiddleware_ErrorDeInfraestructura_Retorna500(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("pool agotado")}
	resp, body := doProtected(t, buildTestApp(resolver), bearer(t))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "INTERNAL")
	assert.NotContains(t, body, "pool agotado", "el error crudo no se expone")
}

func TestScopeMiddleware_NoAutenticado_Retorna401(t *testing.T) {
	resolver := &fakeResolver{err: domain.ErrUnauthenticated}
	resp, body := doProtected(t, buildTestApp(resolver), bearer(t))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "UNAUTHENTICATED")
}

func TestGetScope_SinMiddlewareEsNoScope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(apphttp.GetScope(c).Kind.String())
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "none", string(body))
}
