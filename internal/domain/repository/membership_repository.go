package repository

import (
	"context"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// MembershipRepository puerto de las dos tablas de concesiones (businesses_users y branches_users).
type MembershipRepository interface {
	// FindActiveBusinessUser devuelve la concesión activa de negocio del usuario o (nil, nil).
	FindActiveBusinessUser(ctx context.Context, userID string) (*entity.BusinessUser, error)
	// FindActiveBranchUser devuelve la concesión activa de sucursal (con BusinessID del join) o (nil, nil).
	FindActiveBranchUser(ctx context.Context, userID string) (*entity.BranchUser, error)
	GetBranchUserByUser(ctx context.Context, userID string) (*entity.BranchUser, error)
	GetBusinessUserByUser(ctx context.Context, userID string) (*entity.BusinessUser, error)
	CreateBusinessUser(ctx context.Context, bu *entity.BusinessUser) error
	CreateBranchUser(ctx context.Context, bu *entity.BranchUser) error
	UpdateBranchUser(ctx context.Context, bu *entity.BranchUser) error
	// ListStaff personal de sucursales del negocio; branchID vacío = todas.
	ListStaff(ctx context.Context, businessID, branchID string) ([]*entity.StaffMember, error)
	DeleteBusinessUser(ctx context.Context, id string) error
	DeleteBranchUser(ctx context.Context, id string) error
}
