package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/marko-code-lab/noiddea/internal/domain"
)

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword(string(hash), "clave-segura"))
	assert.False(t, CheckPassword(string(hash), "otra-clave"))
	assert.False(t, CheckPassword("no-es-hash", "clave-segura"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", normalizeEmail("  Ana@Example.COM "))
}

// Las validaciones corren antes de tocar la BD: el Querier nil no se usa.
func TestCreateAccount_ValidaAntesDeEscribir(t *testing.T) {
	g := NewPasswordGateway(nil, bcrypt.MinCost)

	_, err := g.CreateAccount(context.Background(), "  ", "clave-segura")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = g.CreateAccount(context.Background(), "ana@example.com", "corta")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
