package access

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// GrantFinder lo mínimo que el resolver necesita de las tablas de concesiones.
// Lo implementa *postgres.MembershipRepo.
type GrantFinder interface {
	FindActiveBusinessUser(ctx context.Context, userID string) (*entity.BusinessUser, error)
	FindActiveBranchUser(ctx context.Context, userID string) (*entity.BranchUser, error)
}

// Resolver determina el alcance efectivo de un usuario a partir de sus concesiones.
type Resolver struct {
	grants GrantFinder
}

// NewResolver construye el resolver.
func NewResolver(grants GrantFinder) *Resolver {
	return &Resolver{grants: grants}
}

// Resolve devuelve BusinessScope si el usuario tiene una concesión activa de negocio; si no,
// BranchScope si tiene una de sucursal; si no, NoScope.
//
// Las dos consultas salen en paralelo, pero el resultado es el del algoritmo secuencial: un error de la
// consulta de sucursal se ignora cuando ya existe concesión de negocio. "Sin filas" es ausencia;
// cualquier otro error se propaga y nunca se convierte en NoScope.
func (r *Resolver) Resolve(ctx context.Context, userID string) (authz.Scope, error) {
	if userID == "" {
		return authz.NoScope(""), domain.ErrUnauthenticated
	}

	var businessUser *entity.BusinessUser
	var branchUser *entity.BranchUser
	var businessErr, branchErr error
	var g errgroup.Group
	g.Go(func() error {
		businessUser, businessErr = r.grants.FindActiveBusinessUser(ctx, userID)
		return nil
	})
	g.Go(func() error {
		branchUser, branchErr = r.grants.FindActiveBranchUser(ctx, userID)
		return nil
	})
	_ = g.Wait()

	if businessErr != nil {
		return authz.NoScope(userID), fmt.Errorf("resolver concesión de negocio: %w", businessErr)
	}
	if businessUser != nil {
		return authz.BusinessScope(userID, businessUser.BusinessID, businessUser.Role), nil
	}
	if branchErr != nil {
		return authz.NoScope(userID), fmt.Errorf("resolver concesión de sucursal: %w", branchErr)
	}
	if branchUser != nil {
		return authz.BranchScope(userID, branchUser.BranchID, branchUser.BusinessID, branchUser.Role, branchUser.Benefit), nil
	}
	return authz.NoScope(userID), nil
}
