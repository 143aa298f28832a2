package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/domain"
	domaincatalog "github.com/marko-code-lab/noiddea/internal/domain/catalog"
)

func TestTemplate_EncabezadosYFilaDeEjemplo(t *testing.T) {
	f := newFixture(t)
	out, err := f.exports.Template()
	require.NoError(t, err)
	assert.Equal(t, "plantilla-productos.xlsx", out.Filename)
	require.Len(t, f.codec.serialized, 2)
	assert.Equal(t, domaincatalog.TemplateHeaders, f.codec.serialized[0])
	assert.Len(t, f.codec.serialized[1], len(domaincatalog.TemplateHeaders))
}

func TestExport_ProductosDeLaSucursal(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", branchB, "Arroz", 10, true)
	p := f.store.Product("p1")
	exp := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	p.Expiration = &exp
	f.store.PutProduct(p)

	out, err := f.exports.Export(context.Background(), owner, branchB)
	require.NoError(t, err)
	assert.Equal(t, "reporte-productos-sucursal-norte.xlsx", out.Filename)
	require.Len(t, f.codec.serialized, 2)
	row := f.codec.serialized[1]
	assert.Equal(t, "Arroz", row[0])
	assert.Equal(t, "10", row[7])
	assert.Equal(t, "2026-03-09", row[9])
	assert.Equal(t, "pack:6:25", row[10])
}

func TestReport_RenderizaConNegocioYSucursal(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", branchA, "Arroz", 10, false)

	out, err := f.exports.Report(context.Background(), managerA, branchA)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, "inventario-centro.pdf", out.Filename)
	assert.Equal(t, "Bodega Central", f.report.business.Name)
	assert.Len(t, f.report.products, 1)

	_, err = f.exports.Report(context.Background(), managerA, branchB)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
