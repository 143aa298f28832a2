package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
)

// Compra en branchA: 2 packs de p1 (6 unidades c/u) a 20 y 5 unidades sueltas de p2 a 3.
func (f *fixture) purchaseRequest() dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		BranchID:   branchA,
		SupplierID: supplierID,
		Notes:      "pedido semanal",
		Items: []dto.PurchaseItemRequest{
			{PresentationID: "p1-p", Quantity: 2, UnitCost: decimal.RequireFromString("20")},
			{PresentationID: "p2-u", Quantity: 5, UnitCost: decimal.RequireFromString("3")},
		},
	}
}

func (f *fixture) approvedPurchase(t *testing.T) string {
	t.Helper()
	f.addProduct(t, "p1", branchA, "Gaseosa", 10, true)
	f.addProduct(t, "p2", branchA, "Pan", 4, false)
	ctx := context.Background()
	out, err := f.purchase.Create(ctx, owner, f.purchaseRequest())
	require.NoError(t, err)
	_, err = f.purchase.Approve(ctx, owner, out.ID)
	require.NoError(t, err)
	return out.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseCreate_CalculaTotalYQuedaPendiente(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", branchA, "Gaseosa", 10, true)
	f.addProduct(t, "p2", branchA, "Pan", 4, false)

	out, err := f.purchase.Create(context.Background(), managerA, f.purchaseRequest())
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchasePending), out.Status)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("55")), out.Total.String())
	require.Len(t, out.Items, 2)
	assert.True(t, out.Items[0].Subtotal.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, "u-mgr", out.CreatedByUserID)

	assert.Equal(t, 1, f.store.PurchaseCount())
	assert.Equal(t, 2, f.store.PurchaseItemCount())
	assert.Equal(t, int64(10), f.stock("p1"), "crear no mueve stock")
}

func TestPurchaseCreate_FallaDeRenglonesBorraLaCompra(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", branchA, "Gaseosa", 10, true)
	f.addProduct(t, "p2", branchA, "Pan", 4, false)
	f.store.FailAlways("purchase_items.create_batch", errDB)

	_, err := f.purchase.Create(context.Background(), owner, f.purchaseRequest())
	require.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.NotContains(t, err.Error(), errDB.Error())
	assert.Equal(t, 0, f.store.PurchaseCount())
	assert.Equal(t, 1, f.store.Calls("purchases.delete"))
	assert.Equal(t, []bool{true}, f.metrics.compensations["purchase_create"])
}

func TestPurchaseCreate_CompensacionFallidaQuedaRegistrada(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", branchA, "Gaseosa", 10, true)
	f.addProduct(t, "p2", branchA, "Pan", 4, false)
	f.store.FailAlways("purchase_items.create_batch", errDB)
	f.store.FailAlways("purchases.delete", errDB)

	_, err := f.purchase.Create(context.Background(), owner, f.purchaseRequest())
	require.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, 1, f.store.PurchaseCount())
	assert.Equal(t, []bool{false}, f.metrics.compensations["purchase_create"])
}

func TestPurchaseCreate_ValidaAntesDeEscribir(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", branchA, "Gaseosa", 10, true)
	f.addProduct(t, "p2", branchA, "Pan", 4, false)
	f.addProduct(t, "n1", branchB, "Leche", 3, false)
	f.store.PutSupplier(&entity.Supplier{ID: "sup-off", BusinessID: bizID, Name: "Cerrado", IsActive: false})
	f.store.PutSupplier(&entity.Supplier{ID: "sup-x", BusinessID: "biz-2", Name: "Ajeno", IsActive: true})
	ctx := context.Background()

	otherBranch := f.purchaseRequest()
	otherBranch.Items = append(otherBranch.Items, dto.PurchaseItemRequest{PresentationID: "n1-u", Quantity: 1})
	_, err := f.purchase.Create(ctx, owner, otherBranch)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "presentación de otra sucursal")

	inactive := f.purchaseRequest()
	inactive.SupplierID = "sup-off"
	_, err = f.purchase.Create(ctx, owner, inactive)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "proveedor desactivado")

	foreign := f.purchaseRequest()
	foreign.SupplierID = "sup-x"
	_, err = f.purchase.Create(ctx, owner, foreign)
	assert.ErrorIs(t, err, domain.ErrNotFound, "proveedor de otro negocio")

	zero := f.purchaseRequest()
	zero.Items[0].Quantity = 0
	_, err = f.purchase.Create(ctx, owner, zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.purchase.Create(ctx, managerA, dto.CreatePurchaseRequest{BranchID: branchB, SupplierID: supplierID})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "manager en otra sucursal")

	assert.Equal(t, 0, f.store.Calls("purchases.create"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseApprove_SoloOwnerOAdminYSoloPendiente(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", branchA, "Gaseosa", 10, true)
	f.addProduct(t, "p2", branchA, "Pan", 4, false)
	ctx := context.Background()
	out, err := f.purchase.Create(ctx, owner, f.purchaseRequest())
	require.NoError(t, err)

	_, err = f.purchase.Approve(ctx, managerA, out.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	approved, err := f.purchase.Approve(ctx, owner, out.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseApproved), approved.Status)
	assert.Equal(t, "u-owner", approved.ApprovedByUserID)
	require.NotNil(t, approved.ApprovedAt)

	_, err = f.purchase.Approve(ctx, owner, out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseCancel_GuardaMotivoYNoCancelaRecibidas(t *testing.T) {
	f := newFixture(t)
	id := f.approvedPurchase(t)
	ctx := context.Background()

	out, err := f.purchase.Cancel(ctx, owner, id, "  proveedor sin stock ")
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseCancelled), out.Status)
	assert.Equal(t, "proveedor sin stock", f.store.Purchase(id).Notes)

	_, err = f.purchase.Cancel(ctx, owner, id, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ya cancelada")

	_, err = f.purchase.Receive(ctx, owner, id)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cancelada no se recibe")

	received := f.approvedPurchaseOnSameProducts(t)
	_, err = f.purchase.Receive(ctx, owner, received)
	require.NoError(t, err)
	_, err = f.purchase.Cancel(ctx, owner, received, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "recibida")
}

// approvedPurchaseOnSameProducts segunda compra aprobada sobre p1 y p2 ya cargados.
func (f *fixture) approvedPurchaseOnSameProducts(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	out, err := f.purchase.Create(ctx, owner, f.purchaseRequest())
	require.NoError(t, err)
	_, err = f.purchase.Approve(ctx, owner, out.ID)
	require.NoError(t, err)
	return out.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseReceive_SumaCantidadPorUnidades(t *testing.T) {
	f := newFixture(t)
	id := f.approvedPurchase(t)

	out, err := f.purchase.Receive(context.Background(), managerA, id)
	require.NoError(t, err)
	assert.Equal(t, int64(22), f.stock("p1"), "10 + 2 packs × 6")
	assert.Equal(t, int64(9), f.stock("p2"), "4 + 5 unidades")
	require.Len(t, out.Stock, 2)
	assert.Equal(t, dto.ReceivedStockEntry{ProductID: "p1", Added: 12, Stock: 22}, out.Stock[0])

	p := f.store.Purchase(id)
	assert.Equal(t, entity.PurchaseReceived, p.Status)
	assert.NotNil(t, p.ReceivedAt)

	_, err = f.purchase.Receive(context.Background(), owner, id)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se recibe dos veces")
	assert.Equal(t, int64(22), f.stock("p1"))
}

func TestPurchaseReceive_RenglonesDelMismoProductoSeAgrupan(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", branchA, "Gaseosa", 0, true)
	ctx := context.Background()
	out, err := f.purchase.Create(ctx, owner, dto.CreatePurchaseRequest{
		BranchID:   branchA,
		SupplierID: supplierID,
		Items: []dto.PurchaseItemRequest{
			{PresentationID: "p1-p", Quantity: 1, UnitCost: decimal.RequireFromString("20")},
			{PresentationID: "p1-u", Quantity: 3, UnitCost: decimal.RequireFromString("4")},
		},
	})
	require.NoError(t, err)
	_, err = f.purchase.Approve(ctx, owner, out.ID)
	require.NoError(t, err)

	rec, err := f.purchase.Receive(ctx, owner, out.ID)
	require.NoError(t, err)
	require.Len(t, rec.Stock, 1)
	assert.Equal(t, int64(9), f.stock("p1"))
	assert.Equal(t, 1, f.store.Calls("products.update_stock"))
}

func TestPurchaseReceive_PendienteDebeAprobarse(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", branchA, "Gaseosa", 10, true)
	f.addProduct(t, "p2", branchA, "Pan", 4, false)
	out, err := f.purchase.Create(context.Background(), owner, f.purchaseRequest())
	require.NoError(t, err)

	_, err = f.purchase.Receive(context.Background(), owner, out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.store.Calls("products.update_stock"))
}

// Otra escritura gana la versión de p1 una vez: la suma relee y reintenta sobre el stock nuevo.
func TestPurchaseReceive_ConflictoDeVersionSeReintenta(t *testing.T) {
	f := newFixture(t)
	id := f.approvedPurchase(t)
	f.store.OnCall("products.update_stock", func(call int) {
		if call == 1 {
			f.store.BumpVersion("p1", 3)
		}
	})

	_, err := f.purchase.Receive(context.Background(), owner, id)
	require.NoError(t, err)
	assert.Equal(t, int64(25), f.stock("p1"), "10 + 3 ajenas + 12")
	assert.Equal(t, int64(9), f.stock("p2"))
	assert.Equal(t, 3, f.store.Calls("products.update_stock"))
	assert.Equal(t, entity.PurchaseReceived, f.store.Purchase(id).Status)
}

// p2 pierde la versión en cada intento: se resta lo sumado a p1 y la compra vuelve a aprobada.
func TestPurchaseReceive_ConflictoPersistenteRevierteLoAplicado(t *testing.T) {
	f := newFixture(t)
	id := f.approvedPurchase(t)
	f.store.OnCall("products.update_stock", func(int) { f.store.BumpVersion("p2", 0) })

	_, err := f.purchase.Receive(context.Background(), owner, id)
	require.ErrorIs(t, err, domain.ErrPartialWrite)
	assert.Equal(t, int64(10), f.stock("p1"))
	assert.Equal(t, int64(4), f.stock("p2"))

	p := f.store.Purchase(id)
	assert.Equal(t, entity.PurchaseApproved, p.Status)
	assert.Nil(t, p.ReceivedAt)
	assert.Equal(t, []bool{true, true}, f.metrics.compensations["purchase_receive"])

	f.store.OnCall("products.update_stock", nil)
	_, err = f.purchase.Receive(context.Background(), owner, id)
	require.NoError(t, err, "la compra revertida se puede volver a recibir")
	assert.Equal(t, int64(22), f.stock("p1"))
}

func TestPurchaseReceive_ManagerDeOtraSucursalEsRechazado(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "n1", branchB, "Leche", 3, false)
	ctx := context.Background()
	out, err := f.purchase.Create(ctx, owner, dto.CreatePurchaseRequest{
		BranchID:   branchB,
		SupplierID: supplierID,
		Items:      []dto.PurchaseItemRequest{{PresentationID: "n1-u", Quantity: 2, UnitCost: decimal.RequireFromString("1")}},
	})
	require.NoError(t, err)
	_, err = f.purchase.Approve(ctx, owner, out.ID)
	require.NoError(t, err)

	_, err = f.purchase.Receive(ctx, managerA, out.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, int64(3), f.stock("n1"))
	assert.Equal(t, entity.PurchaseApproved, f.store.Purchase(out.ID).Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Stats
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseListYStats_AlcancePorSucursal(t *testing.T) {
	f := newFixture(t)
	id := f.approvedPurchase(t)
	f.addProduct(t, "n1", branchB, "Leche", 3, false)
	ctx := context.Background()
	_, err := f.purchase.Create(ctx, owner, dto.CreatePurchaseRequest{
		BranchID:   branchB,
		SupplierID: supplierID,
		Items:      []dto.PurchaseItemRequest{{PresentationID: "n1-u", Quantity: 2, UnitCost: decimal.RequireFromString("1.5")}},
	})
	require.NoError(t, err)

	all, err := f.purchase.List(ctx, owner, dto.PurchaseListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Pagination.Total)

	mine, err := f.purchase.List(ctx, managerA, dto.PurchaseListRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, id, mine.Items[0].ID)

	_, err = f.purchase.List(ctx, managerA, dto.PurchaseListRequest{BranchID: branchB})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	pending, err := f.purchase.List(ctx, owner, dto.PurchaseListRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, 1, pending.Pagination.Total)

	st, err := f.purchase.Stats(ctx, owner, "")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, 1, st.Approved)
	assert.Equal(t, 2, st.Total)
	assert.True(t, st.TotalAmount.Equal(decimal.RequireFromString("58")), st.TotalAmount.String())

	branchStats, err := f.purchase.Stats(ctx, managerA, "")
	require.NoError(t, err)
	assert.Equal(t, 1, branchStats.Total)

	detail, err := f.purchase.Get(ctx, managerA, id)
	require.NoError(t, err)
	assert.Len(t, detail.Items, 2)
}
