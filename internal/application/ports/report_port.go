package ports

import (
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// InventoryReportRenderer genera el reporte de inventario de una sucursal (PDF).
type InventoryReportRenderer interface {
	RenderInventory(business *entity.Business, branch *entity.Branch, products []*entity.Product) ([]byte, error)
}
