package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnitVariant nombre de la presentación base obligatoria de todo producto.
const UnitVariant = "unidad"

// ProductPresentation variante de empaque vendible de un producto (unidad, six-pack, caja...).
// Price nulo significa "usa el precio del producto".
type ProductPresentation struct {
	ID        string
	ProductID string
	Variant   string
	Units     int
	Price     decimal.NullDecimal
	IsActive  bool
	CreatedAt time.Time
	// Columnas del formato antiguo name/unit; solo las lee la importación entre sucursales.
	LegacyName string
	LegacyUnit string
}

// IsUnit indica si es la presentación base "unidad". Filas cargadas a mano pueden traerla como "Unidad".
func (p *ProductPresentation) IsUnit() bool {
	return strings.EqualFold(strings.TrimSpace(p.Variant), UnitVariant)
}
