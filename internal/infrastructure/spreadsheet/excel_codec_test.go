package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/domain/catalog"
)

func TestSerializeYParse_IdaYVuelta(t *testing.T) {
	c := NewExcelCodec()
	rows := [][]string{
		catalog.TemplateHeaders,
		{"Coca-Cola 600ml", "Gaseosa", "Coca-Cola", "7702004003508", "CC-600", "3.00", "5.00", "10", "0", "2026-12-31", "pack:6:25"},
		{"Agua", "", "", "", "", "1", "2", "0"},
	}

	content, err := c.Serialize("Productos", rows)
	require.NoError(t, err)

	got, err := c.Parse(content)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, rows[0], got[0])
	assert.Equal(t, rows[1], got[1])
	assert.Equal(t, "Agua", got[2][0])
	assert.Equal(t, "0", got[2][7])
}

func TestParse_ContenidoInvalido(t *testing.T) {
	_, err := NewExcelCodec().Parse([]byte("no es un excel"))
	assert.Error(t, err)
}

func TestSerialize_SinFilas(t *testing.T) {
	content, err := NewExcelCodec().Serialize("", nil)
	require.NoError(t, err)

	got, err := NewExcelCodec().Parse(content)
	require.NoError(t, err)
	assert.Empty(t, got)
}
