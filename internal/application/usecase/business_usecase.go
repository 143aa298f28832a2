package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/marko-code-lab/noiddea/internal/application/auth"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// BusinessUseCase lectura y edición del negocio del usuario. El nombre no cambia nunca.
type BusinessUseCase struct {
	repo repository.BusinessRepository
}

// NewBusinessUseCase construye el caso de uso.
func NewBusinessUseCase(repo repository.BusinessRepository) *BusinessUseCase {
	return &BusinessUseCase{repo: repo}
}

// Get devuelve el negocio del alcance (cualquier miembro del personal puede verlo).
func (uc *BusinessUseCase) Get(ctx context.Context, scope authz.Scope) (*dto.BusinessResponse, error) {
	if err := authz.RequireRole(scope, authz.AnyStaff, ""); err != nil {
		return nil, err
	}
	business, err := uc.repo.GetByID(ctx, scope.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	out := auth.ToBusinessResponse(business)
	return &out, nil
}

// Update edita tax_id, descripción, sitio y tema. Un nombre distinto al actual es un error.
func (uc *BusinessUseCase) Update(ctx context.Context, scope authz.Scope, in dto.UpdateBusinessRequest) (*dto.BusinessResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	business, err := uc.repo.GetByID(ctx, scope.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != business.Name {
		return nil, fmt.Errorf("%w: el nombre del negocio no se puede modificar", domain.ErrInvalidInput)
	}
	if in.TaxID != nil {
		business.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.Description != nil {
		business.Description = strings.TrimSpace(*in.Description)
	}
	if in.Website != nil {
		business.Website = strings.TrimSpace(*in.Website)
	}
	if in.Theme != nil {
		business.Theme = strings.TrimSpace(*in.Theme)
	}
	if err := uc.repo.Update(ctx, business); err != nil {
		return nil, err
	}
	out := auth.ToBusinessResponse(business)
	return &out, nil
}
