package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// PresentationRepository puerto de persistencia para ProductPresentation.
type PresentationRepository interface {
	// CreateBatch inserta todas las presentaciones en una sola sentencia: o entran todas o ninguna.
	CreateBatch(ctx context.Context, list []*entity.ProductPresentation) error
	GetByID(ctx context.Context, id string) (*entity.ProductPresentation, error)
	// ListByProduct devuelve activas e inactivas; con includeUnit=false excluye la "unidad".
	ListByProduct(ctx context.Context, productID string, includeUnit bool) ([]*entity.ProductPresentation, error)
	ListActiveByProducts(ctx context.Context, productIDs []string) (map[string][]*entity.ProductPresentation, error)
	Update(ctx context.Context, p *entity.ProductPresentation) error
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByProduct(ctx context.Context, productID string) error
	SetActive(ctx context.Context, id string, active bool) error
	SoftDeleteByProducts(ctx context.Context, productIDs []string) error
	UpdateUnitPrice(ctx context.Context, productID string, price decimal.Decimal) error
}
