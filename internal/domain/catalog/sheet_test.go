package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "descripcion", NormalizeHeader("  Descripción "))
	assert.Equal(t, "bonificacion", NormalizeHeader("BONIFICACIÓN"))
	assert.Equal(t, "codigo_barras", NormalizeHeader("Código_Barras"))
}

func TestIndexHeaders_Alias(t *testing.T) {
	idx, err := IndexHeaders([]string{"Producto", "Price", "Inventario", "Variantes", "otra"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx[ColName])
	assert.Equal(t, 1, idx[ColPrice])
	assert.Equal(t, 2, idx[ColStock])
	assert.Equal(t, 3, idx[ColPresentations])
	_, hasCost := idx[ColCost]
	assert.False(t, hasCost)
}

func TestIndexHeaders_Requeridas(t *testing.T) {
	_, err := IndexHeaders([]string{"precio", "costo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = IndexHeaders([]string{"nombre", "stock"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseRow_CompletaCostoConPrecio(t *testing.T) {
	idx, err := IndexHeaders([]string{"nombre", "precio", "stock", "presentaciones", "fecha_vencimiento"})
	require.NoError(t, err)

	row, err := ParseRow(idx, []string{" Coca-Cola ", "$ 5.00", "10", "pack:6:25|caja:24|malo", "2026-12-31"})
	require.NoError(t, err)
	assert.Equal(t, "Coca-Cola", row.Name)
	assert.True(t, row.Price.Equal(dec("5")))
	assert.True(t, row.Cost.Equal(dec("5")), "sin columna costo se usa el precio")
	assert.Equal(t, int64(10), row.Stock)
	require.NotNil(t, row.Expiration)
	assert.Equal(t, 2026, row.Expiration.Year())

	require.Len(t, row.Presentations, 2)
	assert.Equal(t, "pack", row.Presentations[0].Variant)
	assert.Equal(t, 6, row.Presentations[0].Units)
	require.NotNil(t, row.Presentations[0].Price)
	assert.True(t, row.Presentations[0].Price.Equal(dec("25")))
	assert.Nil(t, row.Presentations[1].Price)
}

func TestParseRow_Errores(t *testing.T) {
	idx, err := IndexHeaders([]string{"nombre", "costo", "precio"})
	require.NoError(t, err)

	_, err = ParseRow(idx, []string{"", "1", "2"})
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "Nombre es requerido", rowErr.Msg)

	_, err = ParseRow(idx, []string{"Agua", "-3", "2"})
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "Agua", rowErr.Name)
	assert.Equal(t, "Fila 4 (Agua): Costo y precio deben ser números positivos", RowMessage(4, rowErr.Name, rowErr.Msg))
}

func TestParseRow_FilaCorta(t *testing.T) {
	idx, err := IndexHeaders([]string{"nombre", "costo", "precio", "marca"})
	require.NoError(t, err)
	row, err := ParseRow(idx, []string{"Pan"})
	require.NoError(t, err)
	assert.True(t, row.Cost.IsZero())
	assert.Empty(t, row.Brand)
}

func TestParseNumber(t *testing.T) {
	assert.True(t, ParseNumber("$1,500").Equal(dec("1500")))
	assert.True(t, ParseNumber("12.5 kg").Equal(dec("12.5")))
	assert.True(t, ParseNumber("").IsZero())
	assert.True(t, ParseNumber("abc").IsZero())
	assert.True(t, ParseNumber("-3").Equal(dec("-3")))
}

func TestIsEmptyRow(t *testing.T) {
	assert.True(t, IsEmptyRow([]string{"", "  "}))
	assert.True(t, IsEmptyRow(nil))
	assert.False(t, IsEmptyRow([]string{"", "x"}))
}

func TestParseExpiration(t *testing.T) {
	assert.Nil(t, ParseExpiration(""))
	assert.Nil(t, ParseExpiration("mañana"))
	d := ParseExpiration("31/12/2026")
	require.NotNil(t, d)
	assert.Equal(t, 12, int(d.Month()))
}

func TestFormatPresentationsCell(t *testing.T) {
	list := []*entity.ProductPresentation{
		{Variant: entity.UnitVariant, Units: 1, IsActive: true},
		{Variant: "pack", Units: 6, IsActive: true},
		{Variant: "caja", Units: 24, IsActive: false},
	}
	list[1].Price.Decimal = dec("25")
	list[1].Price.Valid = true
	assert.Equal(t, "pack:6:25", FormatPresentationsCell(list))
	assert.Len(t, ParsePresentationsCell(FormatPresentationsCell(list)), 1)
}
