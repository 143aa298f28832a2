package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

var legacyMultiplier = regexp.MustCompile(`x(\d+)`)

// AdaptShape devuelve variant/units de una presentación que puede venir en el formato antiguo
// name/unit. Orden: formato actual, formato antiguo (multiplicador "x6" dentro de unit, 1 si no hay),
// y por último {unidad, 1}.
func AdaptShape(p *entity.ProductPresentation) (variant string, units int) {
	if p == nil {
		return entity.UnitVariant, 1
	}
	if p.Variant != "" && p.Units > 0 {
		return p.Variant, p.Units
	}
	if p.LegacyName != "" {
		return p.LegacyName, legacyUnits(p.LegacyUnit)
	}
	return entity.UnitVariant, 1
}

func legacyUnits(unit string) int {
	m := legacyMultiplier.FindStringSubmatch(unit)
	if len(m) < 2 {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// CloneForImport convierte las presentaciones activas de un producto origen (en cualquiera de los
// dos formatos) en extras para el producto importado. Las que resultan "unidad", sin importar
// mayúsculas, se descartan porque la unidad se crea siempre con el producto.
func CloneForImport(list []*entity.ProductPresentation) []PresentationInput {
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
