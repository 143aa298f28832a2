// Package identity proveedor de identidad propio: cuentas (email + hash bcrypt) en la tabla accounts.
// Los perfiles y concesiones viven aparte; el ID de la cuenta es el ID del usuario.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/infrastructure/postgres"
)

var _ ports.IdentityGateway = (*PasswordGateway)(nil)

// MinPasswordLength largo mínimo de contraseña aceptado al crear cuentas.
const MinPasswordLength = 8

// PasswordGateway implementa ports.IdentityGateway sobre PostgreSQL con bcrypt.
type PasswordGateway struct {
	q    postgres.Querier
	cost int
}

// NewPasswordGateway construye el gateway. cost <= 0 usa bcrypt.DefaultCost.
func NewPasswordGateway(q postgres.Querier, cost int) *PasswordGateway {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordGateway{q: q, cost: cost}
}

// CreateAccount registra la cuenta y devuelve su ID. Email repetido -> ErrEmailAlreadyExists.
func (g *PasswordGateway) CreateAccount(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("%w: el email es requerido", domain.ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id := uuid.New().String()
	_, err = g.q.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		id, email, string(hash), time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrEmailAlreadyExists
		}
		return "", fmt.Errorf("insert account: %w", err)
	}
	return id, nil
}

// DeleteAccount borra la cuenta; no existir no es error.
func (g *PasswordGateway) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := g.q.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// Authenticate verifica email y contraseña. Cualquier discrepancia es ErrUnauthenticated.
func (g *PasswordGateway) Authenticate(ctx context.Context, email, password string) (string, error) {
	var id, hash string
	err := g.q.QueryRow(ctx, `SELECT id, password_hash FROM accounts WHERE lower(email) = $1`, normalizeEmail(email)).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrUnauthenticated
		}
		return "", fmt.Errorf("get account: %w", err)
	}
	if !CheckPassword(hash, password) {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}

// CheckPassword compara una contraseña con su hash bcrypt.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
