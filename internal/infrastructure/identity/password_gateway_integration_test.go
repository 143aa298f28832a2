//go:build integration

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/infrastructure/postgres"
)

func TestPasswordGateway_CicloDeCuenta(t *testing.T) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("noiddea"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := postgres.NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = postgres.Migrate(ctx, pool)
	require.NoError(t, err)

	g := NewPasswordGateway(pool, bcrypt.MinCost)

	id, err := g.CreateAccount(ctx, " Ana@Example.com", "clave-segura")
	require.NoError(t, err)

	_, err = g.CreateAccount(ctx, "ana@example.com", "otra-clave-larga")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	got, err := g.Authenticate(ctx, "ANA@example.com", "clave-segura")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = g.Authenticate(ctx, "ana@example.com", "incorrecta")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	require.NoError(t, g.DeleteAccount(ctx, id))
	_, err = g.Authenticate(ctx, "ana@example.com", "clave-segura")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
