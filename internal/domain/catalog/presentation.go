package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// PresentationInput presentación solicitada por el usuario. ID vacío significa nueva.
// Price nil significa "usa el precio del producto".
type PresentationInput struct {
	ID      string
	Variant string
	Units   int
	Price   *decimal.Decimal
}

// ValidateExtra valida una presentación adicional (nunca "unidad", que es administrada por el sistema).
func ValidateExtra(in PresentationInput) error {
	variant := strings.TrimSpace(in.Variant)
	if variant == "" {
		return fmt.Errorf("%w: la presentación requiere un nombre", domain.ErrInvalidInput)
	}
	if strings.EqualFold(variant, entity.UnitVariant) {
		return fmt.Errorf("%w: la presentación \"unidad\" la administra el sistema", domain.ErrInvalidInput)
	}
	if in.Units <= 0 {
		return fmt.Errorf("%w: la presentación %q debe tener unidades mayores a 0", domain.ErrInvalidInput, variant)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return fmt.Errorf("%w: la presentación %q no puede tener precio negativo", domain.ErrInvalidInput, variant)
	}
	return nil
}

// UnitPresentation construye la presentación base de un producto.
func UnitPresentation(productID string, price decimal.Decimal, now time.Time) *entity.ProductPresentation {
	return &entity.ProductPresentation{
		ID:        uuid.New().String(),
		ProductID: productID,
		Variant:   entity.UnitVariant,
		Units:     1,
		Price:     decimal.NewNullDecimal(price),
		IsActive:  true,
		CreatedAt: now,
	}
}

// BuildPresentations arma la lista a insertar junto con un producto nuevo:
// [{unidad, 1, price}] + extras. Un extra sin precio toma el precio del producto.
func BuildPresentations(productID string, price decimal.Decimal, extras []PresentationInput, now time.Time) ([]*entity.ProductPresentation, error) {
	list := make([]*entity.ProductPresentation, 0, len(extras)+1)
	list = append(list, UnitPresentation(productID, price, now))
	for _, in := range extras {
		if err := ValidateExtra(in); err != nil {
			return nil, err
		}
		p := price
		if in.Price != nil {
			p = *in.Price
		}
		list = append(list, &entity.ProductPresentation{
			ID:        uuid.New().String(),
			ProductID: productID,
			Variant:   strings.TrimSpace(in.Variant),
			Units:     in.Units,
			Price:     decimal.NewNullDecimal(p),
			IsActive:  true,
			CreatedAt: now,
		})
	}
	return list, nil
}

// ExtrasFrom convierte presentaciones existentes en entradas para otro producto, descartando "unidad"
// e inactivas. Se usa al copiar un producto entre sucursales.
func ExtrasFrom(list []*entity.ProductPresentation) []PresentationInput {
	out := make([]PresentationInput, 0, len(list))
	for _, p := range list {
		if p == nil || !p.IsActive {
			continue
		}
		variant, units := AdaptShape(p)
		variant = strings.TrimSpace(variant)
		if strings.EqualFold(variant, entity.UnitVariant) {
			continue
		}
		in := PresentationInput{Variant: variant, Units: units}
		if p.Price.Valid {
			price := p.Price.Decimal
			in.Price = &price
		}
		out = append(out, in)
	}
	return out
}
