package memstore

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain"
)

var _ ports.IdentityGateway = (*IdentityGateway)(nil)

type account struct {
	ID       string
	Email    string
	Password string
}

// IdentityGateway cuentas en memoria. La contraseña se guarda en claro: sólo para tests.
type IdentityGateway struct{ s *Store }

// Identity devuelve el gateway de identidad.
func (s *Store) Identity() *IdentityGateway { return &IdentityGateway{s: s} }

// HasAccount indica si existe la cuenta.
func (s *Store) HasAccount(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[userID]
	return ok
}

// AccountCount cantidad de cuentas.
func (s *Store) AccountCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

func (g *IdentityGateway) CreateAccount(_ context.Context, email, password string) (string, error) {
	if err := g.s.enter("identity.create"); err != nil {
		return "", err
	}
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	for _, a := range g.s.accounts {
		if strings.EqualFold(a.Email, email) {
			return "", domain.ErrEmailAlreadyExists
		}
	}
	id := uuid.New().String()
	g.s.accounts[id] = &account{ID: id, Email: email, Password: password}
	return id, nil
}

func (g *IdentityGateway) DeleteAccount(_ context.Context, userID string) error {
	if err := g.s.enter("identity.delete"); err != nil {
		return err
	}
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	delete(g.s.accounts, userID)
	return nil
}

func (g *IdentityGateway) Authenticate(_ context.Context, email, password string) (string, error) {
	if err := g.s.enter("identity.authenticate"); err != nil {
		return "", err
	}
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	for _, a := range g.s.accounts {
		if strings.EqualFold(a.Email, email) && a.Password == password {
			return a.ID, nil
		}
	}
	return "", domain.ErrUnauthenticated
}
