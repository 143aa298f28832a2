package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

func transferReq(qty int64) dto.TransferStockRequest {
	return dto.TransferStockRequest{
		ProductID:       "src",
		SourceBranchID:  branchA,
		TargetBranchID:  branchB,
		Quantity:        qty,
		TargetProductID: "dst",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Destino existente
// ──────────────────────────────────────────────────────────────────────────────

// Origen 20, destino 5, traslado de 8: quedan 12 y 13.
func TestTransfer_DestinoExistente(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)
	f.addProduct(t, "dst", branchB, "Coca-Cola", 5, false)

	out, err := f.transfer.Transfer(context.Background(), owner, transferReq(8))
	require.NoError(t, err)
	assert.Equal(t, int64(12), out.SourceStock)
	assert.Equal(t, int64(13), out.TargetStock)
	assert.Equal(t, 1, out.Attempts)
	assert.False(t, out.CreatedTarget)
	assert.Equal(t, int64(12), f.stock("src"))
	assert.Equal(t, int64(13), f.stock("dst"))
	assert.Equal(t, []string{"ok"}, f.metrics.transfers)
}

// Pedir más de lo disponible no toca ninguna de las dos sucursales.
func TestTransfer_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 3, false)
	f.addProduct(t, "dst", branchB, "Coca-Cola", 5, false)

	_, err := f.transfer.Transfer(context.Background(), owner, transferReq(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "Stock insuficiente. Disponible: 3", err.Error())
	assert.Equal(t, int64(3), f.stock("src"))
	assert.Equal(t, int64(5), f.stock("dst"))
	assert.Equal(t, 0, f.store.Calls("products.update_stock"))
}

// Si el descuento del origen falla, el destino vuelve a su valor.
func TestTransfer_FallaDelOrigenRevierteDestino(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)
	f.addProduct(t, "dst", branchB, "Coca-Cola", 5, false)
	// 1 = suma en destino, 2 = resta en origen, 3 = reversa en destino
	f.store.FailOnNth("products.update_stock", 2, errDB)

	_, err := f.transfer.Transfer(context.Background(), owner, transferReq(8))
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, int64(20), f.stock("src"))
	assert.Equal(t, int64(5), f.stock("dst"))
	assert.Equal(t, []bool{true}, f.metrics.compensations["transfer_target_restore"])
	assert.Equal(t, []string{"partial_write"}, f.metrics.transfers)
}

func TestTransfer_CompensacionFallidaSeReporta(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)
	f.addProduct(t, "dst", branchB, "Coca-Cola", 5, false)
	f.store.OnCall("products.update_stock", func(call int) {
		if call == 2 {
			f.store.FailAlways("products.update_stock", errDB)
		}
	})

	_, err := f.transfer.Transfer(context.Background(), owner, transferReq(8))
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, []bool{false}, f.metrics.compensations["transfer_target_restore"])
}

func TestTransfer_ConflictoDeVersionReintenta(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)
	f.addProduct(t, "dst", branchB, "Coca-Cola", 5, false)
	// otra escritura toca el origen mientras se suma el destino, solo en el primer intento
	f.store.OnCall("products.update_stock", func(call int) {
		if call == 1 {
			f.store.BumpVersion("src", 0)
		}
	})

	out, err := f.transfer.Transfer(context.Background(), owner, transferReq(8))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Attempts)
	assert.Equal(t, int64(12), f.stock("src"))
	assert.Equal(t, int64(13), f.stock("dst"))
}

func TestTransfer_ConflictoPersistenteDevuelveConflict(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)
	f.addProduct(t, "dst", branchB, "Coca-Cola", 5, false)
	// cada intento hace 3 escrituras: suma destino, resta origen (conflicto), reversa destino
	f.store.OnCall("products.update_stock", func(call int) {
		if call%3 == 1 {
			f.store.BumpVersion("src", 0)
		}
	})

	_, err := f.transfer.Transfer(context.Background(), owner, transferReq(8))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(20), f.stock("src"))
	assert.Equal(t, int64(5), f.stock("dst"))
	assert.Equal(t, 9, f.store.Calls("products.update_stock"))
	assert.Equal(t, []string{"conflict"}, f.metrics.transfers)
}

func TestTransfer_ReversaRespetaEscriturasConcurrentesEnDestino(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)
	f.addProduct(t, "dst", branchB, "Coca-Cola", 5, false)
	f.store.FailOnNth("products.update_stock", 2, errDB)
	// una venta en destino entre la suma y la reversa
	f.store.OnCall("products.update_stock", func(call int) {
		if call == 3 {
			f.store.BumpVersion("dst", -1)
		}
	})

	_, err := f.transfer.Transfer(context.Background(), owner, transferReq(8))
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, int64(4), f.stock("dst"))
	assert.Equal(t, int64(20), f.stock("src"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Destino nuevo o por coincidencia
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_CreaProductoDestinoConStockYPresentaciones(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, true)

	out, err := f.transfer.Transfer(context.Background(), owner, dto.TransferStockRequest{
		ProductID:         "src",
		SourceBranchID:    branchA,
		TargetBranchID:    branchB,
		Quantity:          8,
		NewProductName:    "Coca-Cola Norte",
		CreateIfNotExists: true,
	})
	require.NoError(t, err)
	assert.True(t, out.CreatedTarget)
	assert.Equal(t, int64(12), f.stock("src"))

	created := f.store.Product(out.TargetProductID)
	require.NotNil(t, created)
	assert.Equal(t, "Coca-Cola Norte", created.Name)
	assert.Equal(t, branchB, created.BranchID)
	assert.Equal(t, int64(8), created.Stock)
	assert.Equal(t, "bc-src", created.Barcode)

	list := f.store.PresentationsOf(created.ID)
	require.Len(t, list, 2)
	assert.Equal(t, entity.UnitVariant, list[0].Variant)
	assert.Equal(t, "pack", list[1].Variant)
}

func TestTransfer_CreacionSinConfirmarEsRechazada(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)

	_, err := f.transfer.Transfer(context.Background(), owner, dto.TransferStockRequest{
		ProductID:      "src",
		SourceBranchID: branchA,
		TargetBranchID: branchB,
		Quantity:       8,
		NewProductName: "Nuevo",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, f.store.ProductCount())
}

func TestTransfer_FallaDelOrigenBorraElProductoCreado(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, true)
	f.store.FailAlways("products.update_stock", errDB)

	_, err := f.transfer.Transfer(context.Background(), owner, dto.TransferStockRequest{
		ProductID:         "src",
		SourceBranchID:    branchA,
		TargetBranchID:    branchB,
		Quantity:          8,
		NewProductName:    "Coca-Cola",
		CreateIfNotExists: true,
	})
	assert.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, 1, f.store.ProductCount())
	assert.Empty(t, f.store.ProductsInBranch(branchB))
	assert.Equal(t, int64(20), f.stock("src"))
	assert.Equal(t, []bool{true}, f.metrics.compensations["transfer_target_create"])
}

func TestTransfer_BuscaDestinoPorNombre(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)
	f.addProduct(t, "dst", branchB, "coca-cola", 1, false)

	out, err := f.transfer.Transfer(context.Background(), owner, dto.TransferStockRequest{
		ProductID:      "src",
		SourceBranchID: branchA,
		TargetBranchID: branchB,
		Quantity:       4,
	})
	require.NoError(t, err)
	assert.Equal(t, "dst", out.TargetProductID)
	assert.Equal(t, int64(5), f.stock("dst"))
}

func TestTransfer_SinDestinoNiCreacion(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)

	_, err := f.transfer.Transfer(context.Background(), owner, dto.TransferStockRequest{
		ProductID:      "src",
		SourceBranchID: branchA,
		TargetBranchID: branchB,
		Quantity:       4,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "src", branchA, "Coca-Cola", 20, false)
	f.addProduct(t, "dst", branchB, "Coca-Cola", 5, false)
	ctx := context.Background()

	_, err := f.transfer.Transfer(ctx, owner, transferReq(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	same := transferReq(1)
	same.TargetBranchID = branchA
	_, err = f.transfer.Transfer(ctx, owner, same)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	foreign := transferReq(1)
	foreign.TargetBranchID = foreignBr
	_, err = f.transfer.Transfer(ctx, owner, foreign)
	assert.ErrorIs(t, err, domain.ErrCrossTenant)

	_, err = f.transfer.Transfer(ctx, managerA, transferReq(1))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	wrongBranch := transferReq(1)
	wrongBranch.ProductID = "dst"
	_, err = f.transfer.Transfer(ctx, owner, wrongBranch)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(20), f.stock("src"))
	assert.Equal(t, int64(5), f.stock("dst"))
}
