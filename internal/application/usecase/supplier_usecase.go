package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

const supplierSearchLimit = 10

// SupplierUseCase proveedores del negocio. Cualquier owner, admin o manager los consulta;
// solo owner y admin los modifican.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create da de alta un proveedor activo en el negocio del usuario.
func (uc *SupplierUseCase) Create(ctx context.Context, scope authz.Scope, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre del proveedor es requerido", domain.ErrInvalidInput)
	}
	s := &entity.Supplier{
		ID:         uuid.New().String(),
		BusinessID: scope.BusinessID,
		Name:       name,
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Address:    strings.TrimSpace(in.Address),
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Update aplica solo los campos presentes.
func (uc *SupplierUseCase) Update(ctx context.Context, scope authz.Scope, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	s, err := uc.inScope(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre del proveedor es requerido", domain.ErrInvalidInput)
		}
		s.Name = name
	}
	if in.Phone != nil {
		s.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		s.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Address != nil {
		s.Address = strings.TrimSpace(*in.Address)
	}
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// SetActive activa o desactiva un proveedor. Las compras existentes lo siguen referenciando.
func (uc *SupplierUseCase) SetActive(ctx context.Context, scope authz.Scope, id string, active bool) (*dto.SupplierResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	s, err := uc.inScope(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if s.IsActive != active {
		s.IsActive = active
		if err := uc.repo.Update(ctx, s); err != nil {
			return nil, err
		}
	}
	return toSupplierResponse(s), nil
}

// Get detalle de un proveedor del negocio.
func (uc *SupplierUseCase) Get(ctx context.Context, scope authz.Scope, id string) (*dto.SupplierResponse, error) {
	if err := authz.RequireRole(scope, authz.CatalogRemovers, ""); err != nil {
		return nil, err
	}
	s, err := uc.inScope(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// List proveedores del negocio; con includeInactive también los desactivados.
// Si search no está vacío devuelve a lo sumo 10 activos cuyo nombre lo contiene.
func (uc *SupplierUseCase) List(ctx context.Context, scope authz.Scope, search string, includeInactive bool) ([]*dto.SupplierResponse, error) {
	if err := authz.RequireRole(scope, authz.CatalogRemovers, ""); err != nil {
		return nil, err
	}
	var (
		list []*entity.Supplier
		err  error
	)
	if term := strings.TrimSpace(search); term != "" {
		list, err = uc.repo.Search(ctx, scope.BusinessID, term, supplierSearchLimit)
	} else {
		list, err = uc.repo.ListByBusiness(ctx, scope.BusinessID, !includeInactive)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

func (uc *SupplierUseCase) inScope(ctx context.Context, scope authz.Scope, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || authz.RequireBusiness(scope, s.BusinessID) != nil {
		return nil, fmt.Errorf("%w: proveedor no encontrado", domain.ErrNotFound)
	}
	return s, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:         s.ID,
		BusinessID: s.BusinessID,
		Name:       s.Name,
		Phone:      s.Phone,
		Email:      s.Email,
		Address:    s.Address,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
	}
}
