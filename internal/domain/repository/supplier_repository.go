package repository

import (
	"context"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// SupplierRepository puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	// Update persiste datos de contacto y el estado activo.
	Update(ctx context.Context, s *entity.Supplier) error
	// ListByBusiness ordenados por nombre; con activeOnly=false incluye los desactivados.
	ListByBusiness(ctx context.Context, businessID string, activeOnly bool) ([]*entity.Supplier, error)
	// Search proveedores activos cuyo nombre contiene term (sin distinguir mayúsculas).
	Search(ctx context.Context, businessID, term string, limit int) ([]*entity.Supplier, error)
}
