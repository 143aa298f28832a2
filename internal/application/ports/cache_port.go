package ports

import (
	"context"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
)

// CatalogCache caché de listados de productos por negocio.
// Las fallas de la caché nunca deben fallar la operación: la implementación las registra y sigue.
type CatalogCache interface {
	GetList(ctx context.Context, businessID, key string) (*dto.ProductListResponse, bool)
	SetList(ctx context.Context, businessID, key string, list *dto.ProductListResponse)
	// Invalidate descarta todos los listados cacheados del negocio. Se llama después de cada mutación
	// del catálogo o del stock.
	Invalidate(ctx context.Context, businessID string)
}

// NopCatalogCache caché desactivada: nunca encuentra nada.
type NopCatalogCache struct{}

func (NopCatalogCache) GetList(context.Context, string, string) (*dto.ProductListResponse, bool) {
	return nil, false
}

func (NopCatalogCache) SetList(context.Context, string, string, *dto.ProductListResponse) {}

func (NopCatalogCache) Invalidate(context.Context, string) {}
