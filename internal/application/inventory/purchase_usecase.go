package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/application/saga"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// PurchaseUseCase órdenes de compra a proveedores: pendiente -> aprobada -> recibida, o cancelada.
//
// Crear escribe la cabecera y luego los renglones; si los renglones fallan se borra la cabecera.
// Recibir primero toma la compra (aprobada -> recibida, condicionado al estado) y después suma el stock
// producto por producto con compare-and-swap sobre la versión. Si una suma falla, se restan las ya
// aplicadas y la compra vuelve a aprobada.
type PurchaseUseCase struct {
	branches      repository.BranchRepository
	products      repository.ProductRepository
	presentations repository.PresentationRepository
	suppliers     repository.SupplierRepository
	purchases     repository.PurchaseRepository
	cache         ports.CatalogCache
	metrics       ports.Metrics
	log           zerolog.Logger
	maxAttempts   int
}

// NewPurchaseUseCase construye el caso de uso. maxAttempts son los intentos de cada suma de stock
// ante conflictos de versión; <= 0 usa DefaultTransferAttempts.
func NewPurchaseUseCase(
	branches repository.BranchRepository,
	products repository.ProductRepository,
	presentations repository.PresentationRepository,
	suppliers repository.SupplierRepository,
	purchases repository.PurchaseRepository,
	cache ports.CatalogCache,
	metrics ports.Metrics,
	log zerolog.Logger,
	maxAttempts int,
) *PurchaseUseCase {
	if maxAttempts <= 0 {
		maxAttempts = DefaultTransferAttempts
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &PurchaseUseCase{
		branches:      branches,
		products:      products,
		presentations: presentations,
		suppliers:     suppliers,
		purchases:     purchases,
		cache:         cache,
		metrics:       metrics,
		log:           log,
		maxAttempts:   maxAttempts,
	}
}

// Create registra una compra pendiente. Owner y admin en cualquier sucursal; manager solo en la suya.
// Todas las presentaciones deben ser de productos de la sucursal de la compra.
func (uc *PurchaseUseCase) Create(ctx context.Context, scope authz.Scope, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := authz.RequireRole(scope, authz.CatalogRemovers, in.BranchID); err != nil {
		return nil, err
	}
	if _, err := catalog.BranchInScope(ctx, uc.branches, scope, in.BranchID); err != nil {
		return nil, err
	}
	supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || authz.RequireBusiness(scope, supplier.BusinessID) != nil {
		return nil, fmt.Errorf("%w: proveedor no encontrado", domain.ErrNotFound)
	}
	if !supplier.IsActive {
		return nil, fmt.Errorf("%w: el proveedor está desactivado", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la compra debe tener al menos un producto", domain.ErrInvalidInput)
	}

	purchase := &entity.Purchase{
		ID:              uuid.New().String(),
		BusinessID:      scope.BusinessID,
		BranchID:        in.BranchID,
		SupplierID:      supplier.ID,
		CreatedByUserID: scope.UserID,
		Status:          entity.PurchasePending,
		Notes:           strings.TrimSpace(in.Notes),
		Total:           decimal.Zero,
		CreatedAt:       time.Now(),
	}
	items := make([]*entity.PurchaseItem, 0, len(in.Items))
	for i, req := range in.Items {
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: renglón %d: la cantidad debe ser mayor a 0", domain.ErrInvalidInput, i+1)
		}
		if req.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: renglón %d: el costo no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
		if _, _, err := uc.presentationInBranch(ctx, req.PresentationID, in.BranchID, true); err != nil {
			return nil, fmt.Errorf("renglón %d: %w", i+1, err)
		}
		subtotal := req.UnitCost.Mul(decimal.NewFromInt(req.Quantity))
		purchase.Total = purchase.Total.Add(subtotal)
		items = append(items, &entity.PurchaseItem{
			ID:             uuid.New().String(),
			PurchaseID:     purchase.ID,
			PresentationID: req.PresentationID,
			Quantity:       req.Quantity,
			UnitCost:       req.UnitCost,
			Subtotal:       subtotal,
		})
	}

	if err := uc.purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}
	tx := saga.New("purchase_create", uc.metrics, uc.log)
	tx.Done("purchase", func(ctx context.Context) error {
		return uc.purchases.Delete(ctx, purchase.ID)
	})
	if err := uc.purchases.CreateItems(ctx, items); err != nil {
		return nil, tx.Abort(ctx, err, "no se pudieron registrar los productos de la compra")
	}

	uc.log.Info().
		Str("purchase_id", purchase.ID).
		Str("branch_id", purchase.BranchID).
		Int("items", len(items)).
		Str("total", purchase.Total.StringFixed(2)).
		Msg("compra registrada")
	return toPurchaseResponse(purchase, items), nil
}

// Approve pasa una compra pendiente a aprobada. Solo owner y admin.
func (uc *PurchaseUseCase) Approve(ctx context.Context, scope authz.Scope, id string) (*dto.PurchaseResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	p, err := uc.purchaseInScope(ctx, scope, id, authz.BusinessAdmins)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.PurchasePending {
		return nil, fmt.Errorf("%w: solo una compra pendiente puede aprobarse", domain.ErrInvalidInput)
	}
	now := time.Now()
	p.Status = entity.PurchaseApproved
	p.ApprovedByUserID = scope.UserID
	p.ApprovedAt = &now
	if err := uc.purchases.UpdateStatus(ctx, p, entity.PurchasePending); err != nil {
		return nil, statusError(err)
	}
	return toPurchaseResponse(p, nil), nil
}

// Cancel cancela una compra pendiente o aprobada; reason, si viene, queda en las notas.
// Una compra recibida ya movió stock y no se cancela.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, scope authz.Scope, id, reason string) (*dto.PurchaseResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	p, err := uc.purchaseInScope(ctx, scope, id, authz.BusinessAdmins)
	if err != nil {
		return nil, err
	}
	from := p.Status
	switch from {
	case entity.PurchasePending, entity.PurchaseApproved:
	case entity.PurchaseReceived:
		return nil, fmt.Errorf("%w: una compra recibida no puede cancelarse", domain.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: la compra ya está cancelada", domain.ErrInvalidInput)
	}
	p.Status = entity.PurchaseCancelled
	if r := strings.TrimSpace(reason); r != "" {
		p.Notes = r
	}
	if err := uc.purchases.UpdateStatus(ctx, p, from); err != nil {
		return nil, statusError(err)
	}
	return toPurchaseResponse(p, nil), nil
}

// stockDelta unidades a sumar a un producto por la recepción.
type stockDelta struct {
	productID string
	units     int64
}

// Receive suma al stock la mercadería de una compra aprobada: cantidad × unidades de la presentación.
// Owner y admin en cualquier sucursal; manager solo en la suya.
func (uc *PurchaseUseCase) Receive(ctx context.Context, scope authz.Scope, id string) (*dto.ReceivePurchaseResponse, error) {
	if err := authz.RequireRole(scope, authz.CatalogRemovers, ""); err != nil {
		return nil, err
	}
	p, err := uc.purchaseInScope(ctx, scope, id, authz.CatalogRemovers)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case entity.PurchaseApproved:
	case entity.PurchasePending:
		return nil, fmt.Errorf("%w: la compra debe aprobarse antes de recibirla", domain.ErrInvalidInput)
	case entity.PurchaseReceived:
		return nil, fmt.Errorf("%w: la compra ya fue recibida", domain.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: la compra está cancelada", domain.ErrInvalidInput)
	}

	items, err := uc.purchases.ListItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	deltas, err := uc.receiveDeltas(ctx, p, items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p.Status = entity.PurchaseReceived
	p.ReceivedAt = &now
	if err := uc.purchases.UpdateStatus(ctx, p, entity.PurchaseApproved); err != nil {
		return nil, statusError(err)
	}
	tx := saga.New("purchase_receive", uc.metrics, uc.log)
	tx.Done("status", func(ctx context.Context) error {
		back := *p
		back.Status = entity.PurchaseApproved
		back.ReceivedAt = nil
		return uc.purchases.UpdateStatus(ctx, &back, entity.PurchaseReceived)
	})

	out := &dto.ReceivePurchaseResponse{Stock: make([]dto.ReceivedStockEntry, 0, len(deltas))}
	for _, d := range deltas {
		d := d
		stock, err := uc.addStock(ctx, d.productID, d.units)
		if err != nil {
			uc.log.Warn().Err(err).
				Str("purchase_id", p.ID).
				Str("product_id", d.productID).
				Msg("suma de stock fallida en recepción")
			return nil, tx.Abort(ctx, err, "no se pudo registrar la recepción de la compra")
		}
		tx.Done("stock", func(ctx context.Context) error {
			_, err := uc.addStock(ctx, d.productID, -d.units)
			return err
		})
		out.Stock = append(out.Stock, dto.ReceivedStockEntry{ProductID: d.productID, Added: d.units, Stock: stock})
	}

	uc.cache.Invalidate(ctx, scope.BusinessID)
	uc.log.Info().
		Str("purchase_id", p.ID).
		Str("branch_id", p.BranchID).
		Int("products", len(deltas)).
		Msg("compra recibida")
	out.Purchase = *toPurchaseResponse(p, items)
	return out, nil
}

// receiveDeltas resuelve cada renglón a su producto y agrupa las unidades por producto, en el orden
// en que aparecen. Todo producto debe seguir en la sucursal de la compra.
func (uc *PurchaseUseCase) receiveDeltas(ctx context.Context, p *entity.Purchase, items []*entity.PurchaseItem) ([]stockDelta, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: la compra no tiene productos", domain.ErrInvalidInput)
	}
	index := make(map[string]int, len(items))
	var deltas []stockDelta
	for _, it := range items {
		pres, product, err := uc.presentationInBranch(ctx, it.PresentationID, p.BranchID, false)
		if err != nil {
			return nil, err
		}
		units := it.Quantity * int64(pres.Units)
		if i, ok := index[product.ID]; ok {
			deltas[i].units += units
			continue
		}
		index[product.ID] = len(deltas)
		deltas = append(deltas, stockDelta{productID: product.ID, units: units})
	}
	return deltas, nil
}

// addStock suma delta (negativo para restar) al stock del producto. Cada intento relee el producto y
// escribe condicionado a la versión leída; si otra escritura ganó, vuelve a intentar.
func (uc *PurchaseUseCase) addStock(ctx context.Context, productID string, delta int64) (int64, error) {
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		product, err := uc.products.GetByID(ctx, productID)
		if err != nil {
			return 0, err
		}
		if product == nil {
			return 0, fmt.Errorf("%w: producto no encontrado", domain.ErrNotFound)
		}
		stock := product.Stock + delta
		if stock < 0 {
			return 0, fmt.Errorf("%w. Disponible: %d", domain.ErrInsufficientStock, product.Stock)
		}
		if _, err := uc.products.UpdateStock(ctx, productID, product.Version, stock); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				uc.log.Debug().
					Str("product_id", productID).
					Int("attempt", attempt).
					Msg("conflicto de versión sumando stock, reintentando")
				continue
			}
			return 0, err
		}
		return stock, nil
	}
	return 0, fmt.Errorf("%w: el stock del producto cambió, intenta de nuevo", domain.ErrConflict)
}

// Get detalle de una compra con sus renglones.
func (uc *PurchaseUseCase) Get(ctx context.Context, scope authz.Scope, id string) (*dto.PurchaseResponse, error) {
	if err := authz.RequireRole(scope, authz.CatalogRemovers, ""); err != nil {
		return nil, err
	}
	p, err := uc.purchaseInScope(ctx, scope, id, authz.CatalogRemovers)
	if err != nil {
		return nil, err
	}
	items, err := uc.purchases.ListItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(p, items), nil
}

// List compras del negocio (owner/admin, opcionalmente de una sucursal) o de la sucursal del manager.
func (uc *PurchaseUseCase) List(ctx context.Context, scope authz.Scope, in dto.PurchaseListRequest) (*dto.PurchaseListResponse, error) {
	if err := authz.RequireRole(scope, authz.CatalogRemovers, in.BranchID); err != nil {
		return nil, err
	}
	in.DefaultPage()
	status := entity.PurchaseStatus(in.Status)
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: estado de compra desconocido", domain.ErrInvalidInput)
	}
	branchIDs, err := uc.branchFilter(ctx, scope, in.BranchID)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.purchases.List(ctx, entity.PurchaseFilter{
		BusinessID: scope.BusinessID,
		BranchIDs:  branchIDs,
		Status:     status,
		Limit:      in.Limit,
		Offset:     in.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p, nil))
	}
	return &dto.PurchaseListResponse{Items: items, Pagination: dto.NewPageResponse(in.PageRequest, total)}, nil
}

// Stats conteo por estado y monto total, con el mismo alcance que List.
func (uc *PurchaseUseCase) Stats(ctx context.Context, scope authz.Scope, branchID string) (*dto.PurchaseStatsResponse, error) {
	if err := authz.RequireRole(scope, authz.CatalogRemovers, branchID); err != nil {
		return nil, err
	}
	branchIDs, err := uc.branchFilter(ctx, scope, branchID)
	if err != nil {
		return nil, err
	}
	st, err := uc.purchases.Stats(ctx, scope.BusinessID, branchIDs)
	if err != nil {
		return nil, err
	}
	return toPurchaseStats(st), nil
}

func (uc *PurchaseUseCase) branchFilter(ctx context.Context, scope authz.Scope, branchID string) ([]string, error) {
	if scope.IsBranch() {
		return []string{scope.BranchID}, nil
	}
	if branchID == "" {
		return nil, nil
	}
	if _, err := catalog.BranchInScope(ctx, uc.branches, scope, branchID); err != nil {
		return nil, err
	}
	return []string{branchID}, nil
}

// purchaseInScope carga la compra, verifica el negocio por su sucursal y aplica roles sobre esa sucursal.
func (uc *PurchaseUseCase) purchaseInScope(ctx context.Context, scope authz.Scope, id string, allowed []entity.Role) (*entity.Purchase, error) {
	p, err := uc.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: compra no encontrada", domain.ErrNotFound)
	}
	if _, err := catalog.BranchInScope(ctx, uc.branches, scope, p.BranchID); err != nil {
		return nil, err
	}
	if err := authz.RequireRole(scope, allowed, p.BranchID); err != nil {
		return nil, err
	}
	return p, nil
}

// presentationInBranch presentación cuyo producto pertenece a branchID. Al recibir se aceptan
// presentaciones desactivadas después de crear la compra.
func (uc *PurchaseUseCase) presentationInBranch(ctx context.Context, presentationID, branchID string, requireActive bool) (*entity.ProductPresentation, *entity.Product, error) {
	pres, err := uc.presentations.GetByID(ctx, presentationID)
	if err != nil {
		return nil, nil, err
	}
	if pres == nil || (requireActive && !pres.IsActive) || pres.Units <= 0 {
		return nil, nil, fmt.Errorf("%w: la presentación no existe o está desactivada", domain.ErrInvalidInput)
	}
	product, err := uc.products.GetByID(ctx, pres.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil || product.BranchID != branchID {
		return nil, nil, fmt.Errorf("%w: el producto no pertenece a la sucursal de la compra", domain.ErrInvalidInput)
	}
	return pres, product, nil
}

func statusError(err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("%w: la compra cambió de estado, vuelve a cargarla", domain.ErrConflict)
	}
	return err
}

func toPurchaseResponse(p *entity.Purchase, items []*entity.PurchaseItem) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:               p.ID,
		BusinessID:       p.BusinessID,
		BranchID:         p.BranchID,
		SupplierID:       p.SupplierID,
		CreatedByUserID:  p.CreatedByUserID,
		ApprovedByUserID: p.ApprovedByUserID,
		ApprovedAt:       p.ApprovedAt,
		ReceivedAt:       p.ReceivedAt,
		Status:           string(p.Status),
		Notes:            p.Notes,
		Total:            p.Total,
		CreatedAt:        p.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ID:             it.ID,
			PresentationID: it.PresentationID,
			Quantity:       it.Quantity,
			UnitCost:       it.UnitCost,
			Subtotal:       it.Subtotal,
		})
	}
	return out
}

func toPurchaseStats(st *entity.PurchaseStats) *dto.PurchaseStatsResponse {
	return &dto.PurchaseStatsResponse{
		Pending:     st.Pending,
		Approved:    st.Approved,
		Received:    st.Received,
		Cancelled:   st.Cancelled,
		Total:       st.Pending + st.Approved + st.Received + st.Cancelled,
		TotalAmount: st.TotalAmount,
	}
}
