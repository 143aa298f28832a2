package catalog

import (
	"fmt"
	"strings"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// PresentationDiff resultado de comparar las presentaciones deseadas con las existentes.
type PresentationDiff struct {
	ToInsert []PresentationInput
	ToUpdate []PresentationInput
	ToDelete []string
}

// Empty indica que no hay cambios.
func (d PresentationDiff) Empty() bool {
	return len(d.ToInsert) == 0 && len(d.ToUpdate) == 0 && len(d.ToDelete) == 0
}

// DiffPresentations calcula el reemplazo completo de las presentaciones que no son "unidad".
// La "unidad" nunca entra en existing, así que no puede borrarse ni editarse por esta vía.
// Un id deseado que no está entre las existentes del producto es un error.
func DiffPresentations(existing []*entity.ProductPresentation, desired []PresentationInput) (PresentationDiff, error) {
	byID := make(map[string]*entity.ProductPresentation, len(existing))
	for _, p := range existing {
		if p == nil || p.IsUnit() {
			continue
		}
		byID[p.ID] = p
	}

	var diff PresentationDiff
	keep := make(map[string]bool, len(desired))
	for _, in := range desired {
		if err := ValidateExtra(in); err != nil {
			return PresentationDiff{}, err
		}
		in.Variant = strings.TrimSpace(in.Variant)
		// precio 0 se guarda como nulo (hereda el precio del producto)
		if in.Price != nil && in.Price.IsZero() {
			in.Price = nil
		}
		if in.ID == "" {
			diff.ToInsert = append(diff.ToInsert, in)
			continue
		}
		if _, ok := byID[in.ID]; !ok {
			return PresentationDiff{}, fmt.Errorf("%w: la presentación %s no pertenece al producto", domain.ErrInvalidInput, in.ID)
		}
		if keep[in.ID] {
			return PresentationDiff{}, fmt.Errorf("%w: la presentación %s está repetida", domain.ErrInvalidInput, in.ID)
		}
		keep[in.ID] = true
		diff.ToUpdate = append(diff.ToUpdate, in)
	}

	for _, p := range existing {
		if p == nil || p.IsUnit() {
			continue
		}
		if !keep[p.ID] {
			diff.ToDelete = append(diff.ToDelete, p.ID)
		}
	}
	return diff, nil
}
