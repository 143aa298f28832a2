package repository

import (
	"context"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// PurchaseRepository puerto de persistencia para compras y sus renglones.
// Los Get devuelven (nil, nil) cuando no existe la fila.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	// CreateItems inserta todos los renglones en una sola sentencia: o entran todos o ninguno.
	CreateItems(ctx context.Context, items []*entity.PurchaseItem) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	ListItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error)
	// UpdateStatus persiste estado, aprobación, recepción y notas solo si el estado actual es from.
	// Devuelve domain.ErrConflict si otra escritura cambió el estado.
	UpdateStatus(ctx context.Context, p *entity.Purchase, from entity.PurchaseStatus) error
	// Delete borra la compra y sus renglones; solo se usa como compensación.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.PurchaseFilter) ([]*entity.Purchase, int, error)
	Stats(ctx context.Context, businessID string, branchIDs []string) (*entity.PurchaseStats, error)
}
