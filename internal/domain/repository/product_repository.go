package repository

import (
	"context"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando no existe la fila.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	// Update persiste los campos descriptivos y de precio; no toca stock ni version.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock escribe stock solo si la versión actual es expectedVersion (compare-and-swap).
	// Devuelve la nueva versión o domain.ErrConflict si otra escritura ganó.
	UpdateStock(ctx context.Context, id string, expectedVersion, stock int64) (int64, error)
	SoftDelete(ctx context.Context, ids []string) (int64, error)
	// Delete borra la fila físicamente; solo se usa como compensación.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, int, error)
	ListActiveByBranch(ctx context.Context, branchID string) ([]*entity.Product, error)
	// FindInBranch busca un producto activo de la sucursal por nombre o código de barras.
	FindInBranch(ctx context.Context, branchID, name, barcode string) (*entity.Product, error)
}
