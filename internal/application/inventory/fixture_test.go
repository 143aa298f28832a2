package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/inventory"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/testutil/memstore"
)

const (
	bizID     = "biz-1"
	branchA   = "br-a"
	branchB   = "br-b"
	foreignBr = "br-x"

	supplierID = "sup-1"
)

var (
	owner    = authz.BusinessScope("u-owner", bizID, entity.RoleOwner)
	managerA = authz.BranchScope("u-mgr", branchA, bizID, entity.RoleManager, decimal.Zero)

	errDB = errors.New("conexión perdida")
)

type fixture struct {
	store    *memstore.Store
	transfer *inventory.TransferUseCase
	imports  *inventory.ImportUseCase
	exports  *inventory.ExportUseCase
	purchase *inventory.PurchaseUseCase
	codec    *rowsCodec
	metrics  *spyMetrics
	report   *spyReport
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	s.PutBusiness(&entity.Business{ID: bizID, Name: "Bodega Central"})
	s.PutBusiness(&entity.Business{ID: "biz-2", Name: "Otra"})
	s.PutBranch(&entity.Branch{ID: branchA, BusinessID: bizID, Name: "Centro"})
	s.PutBranch(&entity.Branch{ID: branchB, BusinessID: bizID, Name: "Sucursal Norte"})
	s.PutBranch(&entity.Branch{ID: foreignBr, BusinessID: "biz-2", Name: "Ajena"})
	s.PutSupplier(&entity.Supplier{ID: supplierID, BusinessID: bizID, Name: "Distribuidora Sur", IsActive: true})

	metrics := &spyMetrics{compensations: map[string][]bool{}}
	codec := &rowsCodec{}
	report := &spyReport{}
	writer := catalog.NewWriter(s.Products(), s.Presentations(), metrics, zerolog.Nop())
	cache := ports.NopCatalogCache{}
	return &fixture{
		store:    s,
		transfer: inventory.NewTransferUseCase(s.Branches(), s.Products(), s.Presentations(), writer, cache, metrics, zerolog.Nop(), 0),
		imports:  inventory.NewImportUseCase(s.Branches(), s.Products(), s.Presentations(), writer, codec, cache, metrics, zerolog.Nop()),
		exports:  inventory.NewExportUseCase(s.Businesses(), s.Branches(), s.Products(), s.Presentations(), codec, report),
		purchase: inventory.NewPurchaseUseCase(
			s.Branches(), s.Products(), s.Presentations(), s.Suppliers(), s.Purchases(), cache, metrics, zerolog.Nop(), 0,
		),
		codec:    codec,
		metrics:  metrics,
		report:   report,
	}
}

// addProduct producto activo con su "unidad" y, opcionalmente, un pack.
func (f *fixture) addProduct(t *testing.T, id, branchID, name string, stock int64, withPack bool) {
	t.Helper()
	now := time.Now()
	f.store.PutProduct(&entity.Product{
		ID:        id,
		BranchID:  branchID,
		Name:      name,
		Barcode:   "bc-" + id,
		Cost:      decimal.RequireFromString("3"),
		Price:     decimal.RequireFromString("5"),
		Stock:     stock,
		IsActive:  true,
		Version:   1,
		CreatedAt: now,
	})
	f.store.PutPresentation(&entity.ProductPresentation{
		ID: id + "-u", ProductID: id, Variant: entity.UnitVariant, Units: 1,
		Price: decimal.NewNullDecimal(decimal.RequireFromString("5")), IsActive: true, CreatedAt: now,
	})
	if withPack {
		f.store.PutPresentation(&entity.ProductPresentation{
			ID: id + "-p", ProductID: id, Variant: "pack", Units: 6,
			Price: decimal.NewNullDecimal(decimal.RequireFromString("25")), IsActive: true, CreatedAt: now,
		})
	}
	require.NotNil(t, f.store.Product(id))
}

func (f *fixture) stock(id string) int64 {
	p := f.store.Product(id)
	if p == nil {
		return -1
	}
	return p.Stock
}

// rowsCodec codec de hoja de cálculo en memoria: Parse devuelve las filas cargadas.
type rowsCodec struct {
	rows       [][]string
	parseErr   error
	serialized [][]string
	sheet      string
}

func (c *rowsCodec) Parse([]byte) ([][]string, error) {
	return c.rows, c.parseErr
}

func (c *rowsCodec) Serialize(sheetName string, rows [][]string) ([]byte, error) {
	c.sheet = sheetName
	c.serialized = rows
	return []byte("xlsx"), nil
}

type spyMetrics struct {
	transfers     []string
	compensations map[string][]bool
	imported      int
	failed        int
}

func (m *spyMetrics) Transfer(outcome string) { m.transfers = append(m.transfers, outcome) }

func (m *spyMetrics) Compensation(op string, ok bool) {
	m.compensations[op] = append(m.compensations[op], ok)
}

func (m *spyMetrics) ImportItems(_ string, imported, failed int) {
	m.imported += imported
	m.failed += failed
}

type spyReport struct {
	business *entity.Business
	branch   *entity.Branch
	products []*entity.Product
}

func (r *spyReport) RenderInventory(business *entity.Business, branch *entity.Branch, products []*entity.Product) ([]byte, error) {
	r.business, r.branch, r.products = business, branch, products
	return []byte("%PDF"), nil
}
