package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// La lista siempre empieza con exactamente una "unidad" con el precio del producto.
func TestBuildPresentations_UnidadMasExtras(t *testing.T) {
	now := time.Now()
	list, err := BuildPresentations("p-1", dec("5.00"), []PresentationInput{
		{Variant: "pack", Units: 6, Price: ptr(dec("25.00"))},
		{Variant: " caja ", Units: 24},
	}, now)
	require.NoError(t, err)
	require.Len(t, list, 3)

	unit := list[0]
	assert.Equal(t, entity.UnitVariant, unit.Variant)
	assert.Equal(t, 1, unit.Units)
	assert.True(t, unit.Price.Decimal.Equal(dec("5.00")))
	assert.Equal(t, "p-1", unit.ProductID)

	assert.Equal(t, "pack", list[1].Variant)
	assert.True(t, list[1].Price.Decimal.Equal(dec("25.00")))
	assert.Equal(t, "caja", list[2].Variant)
	assert.True(t, list[2].Price.Decimal.Equal(dec("5.00")), "sin precio hereda el del producto")

	units := 0
	for _, p := range list {
		if p.IsUnit() {
			units++
		}
		assert.True(t, p.IsActive)
		assert.NotEmpty(t, p.ID)
	}
	assert.Equal(t, 1, units)
}

func TestBuildPresentations_RechazaUnidadExtra(t *testing.T) {
	_, err := BuildPresentations("p-1", dec("1"), []PresentationInput{{Variant: "Unidad", Units: 1}}, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateExtra(t *testing.T) {
	assert.ErrorIs(t, ValidateExtra(PresentationInput{Variant: "", Units: 2}), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateExtra(PresentationInput{Variant: "pack", Units: 0}), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateExtra(PresentationInput{Variant: "pack", Units: 6, Price: ptr(dec("-1"))}), domain.ErrInvalidInput)
	assert.NoError(t, ValidateExtra(PresentationInput{Variant: "pack", Units: 6}))
}

func TestExtrasFrom_DescartaUnidadEInactivas(t *testing.T) {
	list := []*entity.ProductPresentation{
		{ID: "1", Variant: entity.UnitVariant, Units: 1, IsActive: true, Price: decimal.NewNullDecimal(dec("5"))},
		{ID: "2", Variant: "pack", Units: 6, IsActive: true, Price: decimal.NewNullDecimal(dec("25"))},
		{ID: "3", Variant: "caja", Units: 24, IsActive: false},
		{ID: "4", Variant: "docena", Units: 12, IsActive: true},
		{ID: "5", Variant: " Unidad ", Units: 1, IsActive: true},
	}
	extras := ExtrasFrom(list)
	require.Len(t, extras, 2)
	assert.Equal(t, "pack", extras[0].Variant)
	require.NotNil(t, extras[0].Price)
	assert.True(t, extras[0].Price.Equal(dec("25")))
	assert.Equal(t, "docena", extras[1].Variant)
	assert.Nil(t, extras[1].Price)
	assert.Empty(t, extras[0].ID, "las copias son presentaciones nuevas")
}

// ──────────────────────────────────────────────────────────────────────────────
// DiffPresentations
// ──────────────────────────────────────────────────────────────────────────────

func existingSet() []*entity.ProductPresentation {
	return []*entity.ProductPresentation{
		{ID: "u", Variant: entity.UnitVariant, Units: 1, IsActive: true},
		{ID: "pack", Variant: "pack", Units: 6, IsActive: true},
		{ID: "caja", Variant: "caja", Units: 24, IsActive: true},
	}
}

func TestDiffPresentations_ReemplazoCompleto(t *testing.T) {
	diff, err := DiffPresentations(existingSet(), []PresentationInput{
		{ID: "pack", Variant: "pack", Units: 6, Price: ptr(dec("0"))},
		{Variant: "docena", Units: 12, Price: ptr(dec("50"))},
	})
	require.NoError(t, err)

	require.Len(t, diff.ToUpdate, 1)
	assert.Equal(t, "pack", diff.ToUpdate[0].ID)
	assert.Nil(t, diff.ToUpdate[0].Price, "precio 0 se guarda como nulo")

	require.Len(t, diff.ToInsert, 1)
	assert.Equal(t, "docena", diff.ToInsert[0].Variant)

	assert.Equal(t, []string{"caja"}, diff.ToDelete)
}

// La unidad nunca es candidata a borrado aunque la lista deseada esté vacía.
func TestDiffPresentations_ListaVaciaNoBorraUnidad(t *testing.T) {
	diff, err := DiffPresentations(existingSet(), nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pack", "caja"}, diff.ToDelete)
	assert.NotContains(t, diff.ToDelete, "u")
}

func TestDiffPresentations_NoPermiteEditarUnidad(t *testing.T) {
	_, err := DiffPresentations(existingSet(), []PresentationInput{{ID: "u", Variant: "unidad", Units: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Aunque se renombre, el id de la unidad no está entre las existentes editables.
	_, err = DiffPresentations(existingSet(), []PresentationInput{{ID: "u", Variant: "suelto", Units: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDiffPresentations_IdAjenoOrepetido(t *testing.T) {
	_, err := DiffPresentations(existingSet(), []PresentationInput{{ID: "otro", Variant: "x", Units: 2}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = DiffPresentations(existingSet(), []PresentationInput{
		{ID: "pack", Variant: "pack", Units: 6},
		{ID: "pack", Variant: "pack2", Units: 6},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDiffPresentations_SinCambios(t *testing.T) {
	diff, err := DiffPresentations([]*entity.ProductPresentation{{ID: "u", Variant: entity.UnitVariant, Units: 1}}, nil)
	require.NoError(t, err)
	assert.True(t, diff.Empty())
}
