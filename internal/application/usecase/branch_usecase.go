package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// BranchUseCase casos de uso CRUD para sucursales.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// Create crea una sucursal en el negocio del usuario.
func (uc *BranchUseCase) Create(ctx context.Context, scope authz.Scope, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre de la sucursal es requerido", domain.ErrInvalidInput)
	}
	branch := &entity.Branch{
		ID:         uuid.New().String(),
		BusinessID: scope.BusinessID,
		Name:       name,
		Location:   strings.TrimSpace(in.Location),
		Phone:      strings.TrimSpace(in.Phone),
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// Update actualiza una sucursal del negocio.
func (uc *BranchUseCase) Update(ctx context.Context, scope authz.Scope, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, id); err != nil {
		return nil, err
	}
	branch, err := catalog.BranchInScope(ctx, uc.repo, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre de la sucursal es requerido", domain.ErrInvalidInput)
		}
		branch.Name = name
	}
	if in.Location != nil {
		branch.Location = strings.TrimSpace(*in.Location)
	}
	if in.Phone != nil {
		branch.Phone = strings.TrimSpace(*in.Phone)
	}
	if err := uc.repo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List todas las sucursales para owner/admin; solo la propia para manager/cashier.
func (uc *BranchUseCase) List(ctx context.Context, scope authz.Scope) ([]*dto.BranchResponse, error) {
	if err := authz.RequireRole(scope, authz.AnyStaff, ""); err != nil {
		return nil, err
	}
	if scope.IsBranch() {
		branch, err := uc.repo.GetByID(ctx, scope.BranchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return []*dto.BranchResponse{}, nil
		}
		return []*dto.BranchResponse{toBranchResponse(branch)}, nil
	}
	list, err := uc.repo.ListByBusiness(ctx, scope.BusinessID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BranchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBranchResponse(b))
	}
	return out, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:         b.ID,
		BusinessID: b.BusinessID,
		Name:       b.Name,
		Location:   b.Location,
		Phone:      b.Phone,
		CreatedAt:  b.CreatedAt,
	}
}
