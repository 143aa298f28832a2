package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// PresentationUseCase edición individual de presentaciones. La "unidad" no se puede tocar por aquí.
type PresentationUseCase struct {
	branches      repository.BranchRepository
	products      repository.ProductRepository
	presentations repository.PresentationRepository
	cache         ports.CatalogCache
}

// NewPresentationUseCase construye el caso de uso.
func NewPresentationUseCase(branches repository.BranchRepository, products repository.ProductRepository, presentations repository.PresentationRepository, cache ports.CatalogCache) *PresentationUseCase {
	return &PresentationUseCase{branches: branches, products: products, presentations: presentations, cache: cache}
}

// Update edita variante, unidades o precio (precio 0 = hereda el del producto).
func (uc *PresentationUseCase) Update(ctx context.Context, scope authz.Scope, id string, in dto.UpdatePresentationRequest) (*dto.PresentationResponse, error) {
	p, err := uc.editable(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Variant != nil {
		variant := strings.TrimSpace(*in.Variant)
		if variant == "" || strings.EqualFold(variant, entity.UnitVariant) {
			return nil, fmt.Errorf("%w: nombre de presentación inválido", domain.ErrInvalidInput)
		}
		p.Variant = variant
	}
	if in.Units != nil {
		if *in.Units <= 0 {
			return nil, fmt.Errorf("%w: las unidades deben ser mayores a 0", domain.ErrInvalidInput)
		}
		p.Units = *in.Units
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		if in.Price.IsZero() {
			p.Price = nullablePrice(nil)
		} else {
			p.Price = nullablePrice(in.Price)
		}
	}
	if err := uc.presentations.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, scope.BusinessID)
	out := toPresentationResponse(p)
	return &out, nil
}

// Deactivate desactiva una presentación.
func (uc *PresentationUseCase) Deactivate(ctx context.Context, scope authz.Scope, id string) error {
	return uc.setActive(ctx, scope, id, false)
}

// Activate reactiva una presentación.
func (uc *PresentationUseCase) Activate(ctx context.Context, scope authz.Scope, id string) error {
	return uc.setActive(ctx, scope, id, true)
}

func (uc *PresentationUseCase) setActive(ctx context.Context, scope authz.Scope, id string, active bool) error {
	p, err := uc.editable(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := uc.presentations.SetActive(ctx, p.ID, active); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx, scope.BusinessID)
	return nil
}

// editable carga la presentación, verifica permisos sobre su producto y rechaza la "unidad".
func (uc *PresentationUseCase) editable(ctx context.Context, scope authz.Scope, id string) (*entity.ProductPresentation, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	p, err := uc.presentations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: presentación no encontrada", domain.ErrNotFound)
	}
	if _, _, err := ProductInScope(ctx, uc.products, uc.branches, scope, p.ProductID); err != nil {
		return nil, err
	}
	if p.IsUnit() {
		return nil, fmt.Errorf("%w: la presentación \"unidad\" la administra el sistema", domain.ErrInvalidInput)
	}
	return p, nil
}
