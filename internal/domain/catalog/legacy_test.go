package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

func TestAdaptShape(t *testing.T) {
	cases := []struct {
		name    string
		in      *entity.ProductPresentation
		variant string
		units   int
	}{
		{"formato actual", &entity.ProductPresentation{Variant: "pack", Units: 6}, "pack", 6},
		{"formato antiguo con multiplicador", &entity.ProductPresentation{LegacyName: "six pack", LegacyUnit: "unidad x6"}, "six pack", 6},
		{"formato antiguo sin multiplicador", &entity.ProductPresentation{LegacyName: "caja", LegacyUnit: "caja"}, "caja", 1},
		{"formato antiguo multiplicador dos dígitos", &entity.ProductPresentation{LegacyName: "bulto", LegacyUnit: "x24"}, "bulto", 24},
		{"formato desconocido", &entity.ProductPresentation{}, entity.UnitVariant, 1},
		{"nil", nil, entity.UnitVariant, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			variant, units := AdaptShape(tc.in)
			assert.Equal(t, tc.variant, variant)
			assert.Equal(t, tc.units, units)
		})
	}
}

func TestCloneForImport_MezclaDeFormatos(t *testing.T) {
	list := []*entity.ProductPresentation{
		{Variant: entity.UnitVariant, Units: 1, IsActive: true},
		{Variant: "pack", Units: 6, IsActive: true, Price: decimal.NewNullDecimal(decimal.NewFromInt(25))},
		{LegacyName: "caja", LegacyUnit: "x12", IsActive: true},
		{Variant: "inactiva", Units: 2, IsActive: false},
		{IsActive: true}, // desconocido -> unidad, se descarta
		{LegacyName: "Unidad", LegacyUnit: "x1", IsActive: true},
		{Variant: "UNIDAD", Units: 1, IsActive: true},
	}
	out := CloneForImport(list)
	require.Len(t, out, 2)
	assert.Equal(t, "pack", out[0].Variant)
	require.NotNil(t, out[0].Price)
	assert.Equal(t, "caja", out[1].Variant)
	assert.Equal(t, 12, out[1].Units)
	assert.Nil(t, out[1].Price)
}
