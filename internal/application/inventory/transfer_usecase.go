package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	domaincatalog "github.com/marko-code-lab/noiddea/internal/domain/catalog"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

// DefaultTransferAttempts intentos de un traslado cuando otra escritura gana la versión del stock.
const DefaultTransferAttempts = 3

// restoreAttempts intentos de la escritura inversa sobre el destino.
const restoreAttempts = 3

// Resultados de un traslado para métricas.
const (
	outcomeOK           = "ok"
	outcomeInsufficient = "insufficient_stock"
	outcomeConflict     = "conflict"
	outcomePartial      = "partial_write"
	outcomeError        = "error"
)

// TransferUseCase traslado de stock entre sucursales de un mismo negocio.
//
// No hay transacción: cada escritura de stock es condicional a la versión leída (CAS). Si el descuento
// del origen falla después de haber escrito el destino, se aplica la escritura inversa sobre el destino.
// Un conflicto de versión, una vez compensado, reintenta la operación completa.
type TransferUseCase struct {
	branches      repository.BranchRepository
	products      repository.ProductRepository
	presentations repository.PresentationRepository
	writer        *catalog.Writer
	cache         ports.CatalogCache
	metrics       ports.Metrics
	log           zerolog.Logger
	maxAttempts   int
}

// NewTransferUseCase construye el caso de uso. maxAttempts <= 0 usa DefaultTransferAttempts.
func NewTransferUseCase(
	branches repository.BranchRepository,
	products repository.ProductRepository,
	presentations repository.PresentationRepository,
	writer *catalog.Writer,
	cache ports.CatalogCache,
	metrics ports.Metrics,
	log zerolog.Logger,
	maxAttempts int,
) *TransferUseCase {
	if maxAttempts <= 0 {
		maxAttempts = DefaultTransferAttempts
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &TransferUseCase{
		branches:      branches,
		products:      products,
		presentations: presentations,
		writer:        writer,
		cache:         cache,
		metrics:       metrics,
		log:           log,
		maxAttempts:   maxAttempts,
	}
}

// Transfer mueve in.Quantity unidades del producto origen a un producto de la sucursal destino.
// El destino es in.TargetProductID, o un producto nuevo (in.NewProductName + CreateIfNotExists), o el
// producto del destino con el mismo nombre o código de barras.
func (uc *TransferUseCase) Transfer(ctx context.Context, scope authz.Scope, in dto.TransferStockRequest) (*dto.TransferStockResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	if in.ProductID == "" || in.SourceBranchID == "" || in.TargetBranchID == "" {
		return nil, fmt.Errorf("%w: todos los campos son requeridos", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if in.SourceBranchID == in.TargetBranchID {
		return nil, fmt.Errorf("%w: no puedes transferir a la misma sucursal", domain.ErrInvalidInput)
	}
	if _, err := catalog.BranchInScope(ctx, uc.branches, scope, in.SourceBranchID); err != nil {
		return nil, err
	}
	if _, err := catalog.BranchInScope(ctx, uc.branches, scope, in.TargetBranchID); err != nil {
		return nil, err
	}

	var (
		out *dto.TransferStockResponse
		err error
	)
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		out, err = uc.attempt(ctx, scope, in)
		if err == nil {
			out.Attempts = attempt
			break
		}
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
		uc.log.Debug().
			Str("product_id", in.ProductID).
			Int("attempt", attempt).
			Msg("conflicto de versión en traslado, reintentando")
	}

	outcome := transferOutcome(err)
	uc.metrics.Transfer(outcome)
	if outcome == outcomeOK || outcome == outcomePartial {
		uc.cache.Invalidate(ctx, scope.BusinessID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: el stock cambió durante el traslado, intenta de nuevo", domain.ErrConflict)
		}
		return nil, err
	}
	uc.log.Info().
		Str("source_product_id", out.SourceProductID).
		Str("target_product_id", out.TargetProductID).
		Int64("quantity", in.Quantity).
		Bool("created_target", out.CreatedTarget).
		Msg("traslado de stock")
	return out, nil
}

// attempt una pasada completa: lectura del origen, resolución del destino y escrituras.
func (uc *TransferUseCase) attempt(ctx context.Context, scope authz.Scope, in dto.TransferStockRequest) (*dto.TransferStockResponse, error) {
	source, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if source == nil || source.BranchID != in.SourceBranchID || !source.IsActive {
		return nil, fmt.Errorf("%w: el producto no existe en la sucursal origen", domain.ErrNotFound)
	}
	if source.Stock < in.Quantity {
		return nil, fmt.Errorf("%w. Disponible: %d", domain.ErrInsufficientStock, source.Stock)
	}

	target, newName, err := uc.resolveTarget(ctx, source, in)
	if err != nil {
		return nil, err
	}
	if target != nil {
		return uc.moveToExisting(ctx, source, target, in.Quantity)
	}
	return uc.moveToNew(ctx, scope, source, newName, in)
}

// resolveTarget devuelve el producto destino existente, o nil y el nombre del producto a crear.
func (uc *TransferUseCase) resolveTarget(ctx context.Context, source *entity.Product, in dto.TransferStockRequest) (*entity.Product, string, error) {
	if in.TargetProductID != "" {
		target, err := uc.products.GetByID(ctx, in.TargetProductID)
		if err != nil {
			return nil, "", err
		}
		if target == nil || target.BranchID != in.TargetBranchID || !target.IsActive {
			return nil, "", fmt.Errorf("%w: el producto destino seleccionado no existe", domain.ErrNotFound)
		}
		return target, "", nil
	}

	if name := strings.TrimSpace(in.NewProductName); name != "" {
		if !in.CreateIfNotExists {
			return nil, "", fmt.Errorf("%w: debes activar la opción para crear el producto", domain.ErrInvalidInput)
		}
		return nil, name, nil
	}

	target, err := uc.products.FindInBranch(ctx, in.TargetBranchID, source.Name, source.Barcode)
	if err != nil {
		return nil, "", err
	}
	if target != nil {
		return target, "", nil
	}
	if !in.CreateIfNotExists {
		return nil, "", fmt.Errorf("%w: el producto no existe en la sucursal destino. Selecciona un producto o crea uno nuevo", domain.ErrNotFound)
	}
	return nil, source.Name, nil
}

// moveToExisting suma en el destino y luego resta en el origen. Si la resta falla, revierte el destino.
func (uc *TransferUseCase) moveToExisting(ctx context.Context, source, target *entity.Product, qty int64) (*dto.TransferStockResponse, error) {
	targetStock := target.Stock + qty
	targetVersion, err := uc.products.UpdateStock(ctx, target.ID, target.Version, targetStock)
	if err != nil {
		return nil, fmt.Errorf("actualizar stock destino: %w", err)
	}

	sourceStock := source.Stock - qty
	if _, err := uc.products.UpdateStock(ctx, source.ID, source.Version, sourceStock); err != nil {
		if restoreErr := uc.restoreTarget(ctx, target.ID, targetVersion, targetStock, qty); restoreErr != nil {
			uc.metrics.Compensation("transfer_target_restore", false)
			uc.log.Error().Err(restoreErr).
				AnErr("cause", err).
				Str("source_product_id", source.ID).
				Str("target_product_id", target.ID).
				Int64("quantity", qty).
				Msg("compensación fallida: el destino quedó con stock de más")
			return nil, fmt.Errorf("%w: no se pudo descontar el origen ni revertir el destino", domain.ErrPartialWrite)
		}
		uc.metrics.Compensation("transfer_target_restore", true)
		uc.log.Warn().Err(err).
			Str("source_product_id", source.ID).
			Str("target_product_id", target.ID).
			Msg("descuento del origen fallido, destino revertido")
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: error actualizando stock origen", domain.ErrPartialWrite)
	}

	return &dto.TransferStockResponse{
		SourceProductID: source.ID,
		TargetProductID: target.ID,
		SourceStock:     sourceStock,
		TargetStock:     targetStock,
	}, nil
}

// restoreTarget resta qty al destino. Parte de la versión que dejó la suma y, si otra escritura la
// cambió, relee y vuelve a intentar sobre el stock actual.
func (uc *TransferUseCase) restoreTarget(ctx context.Context, targetID string, version, stock, qty int64) error {
	for i := 0; i < restoreAttempts; i++ {
		_, err := uc.products.UpdateStock(ctx, targetID, version, stock-qty)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		current, err := uc.products.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		version, stock = current.Version, current.Stock
	}
	return domain.ErrConflict
}

// moveToNew crea el producto destino con stock = qty (copiando datos y presentaciones del origen) y luego
// descuenta el origen. Si el descuento falla, borra el producto creado.
func (uc *TransferUseCase) moveToNew(ctx context.Context, scope authz.Scope, source *entity.Product, name string, in dto.TransferStockRequest) (*dto.TransferStockResponse, error) {
	list, err := uc.presentations.ListByProduct(ctx, source.ID, false)
	if err != nil {
		return nil, err
	}

	target := &entity.Product{
		ID:              uuid.New().String(),
		BranchID:        in.TargetBranchID,
		Name:            name,
		Description:     source.Description,
		Brand:           source.Brand,
		Barcode:         source.Barcode,
		SKU:             source.SKU,
		Expiration:      source.Expiration,
		Cost:            source.Cost,
		Price:           source.Price,
		Stock:           in.Quantity,
		Bonification:    source.Bonification,
		IsActive:        true,
		CreatedByUserID: scope.UserID,
		CreatedAt:       time.Now(),
	}
	if err := uc.writer.Create(ctx, target, domaincatalog.ExtrasFrom(list)); err != nil {
		return nil, err
	}

	sourceStock := source.Stock - in.Quantity
	if _, err := uc.products.UpdateStock(ctx, source.ID, source.Version, sourceStock); err != nil {
		if removeErr := uc.writer.Remove(ctx, target.ID); removeErr != nil {
			uc.metrics.Compensation("transfer_target_create", false)
			uc.log.Error().Err(removeErr).
				AnErr("cause", err).
				Str("source_product_id", source.ID).
				Str("target_product_id", target.ID).
				Msg("compensación fallida: el producto creado en destino no se pudo borrar")
			return nil, fmt.Errorf("%w: no se pudo descontar el origen ni borrar el producto creado", domain.ErrPartialWrite)
		}
		uc.metrics.Compensation("transfer_target_create", true)
		uc.log.Warn().Err(err).
			Str("source_product_id", source.ID).
			Str("target_product_id", target.ID).
			Msg("descuento del origen fallido, producto destino borrado")
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: error actualizando stock origen", domain.ErrPartialWrite)
	}

	return &dto.TransferStockResponse{
		SourceProductID: source.ID,
		TargetProductID: target.ID,
		SourceStock:     sourceStock,
		TargetStock:     in.Quantity,
		CreatedTarget:   true,
	}, nil
}

func transferOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrInsufficientStock):
		return outcomeInsufficient
	case errors.Is(err, domain.ErrPartialWrite):
		return outcomePartial
	case errors.Is(err, domain.ErrConflict):
		return outcomeConflict
	default:
		return outcomeError
	}
}
