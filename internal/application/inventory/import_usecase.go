package inventory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
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

// Solo formatos OOXML: el .xls binario no lo lee el codec.
var spreadsheetExtensions = map[string]bool{".xlsx": true, ".xlsm": true}

// ImportUseCase importaciones masivas de catálogo: desde otra sucursal o desde una hoja de cálculo.
// Cada ítem es su propia unidad de trabajo; un ítem fallido se compensa y se reporta sin abortar el lote.
// Permisos y pertenencia de las sucursales se verifican antes del primer ítem.
type ImportUseCase struct {
	branches      repository.BranchRepository
	products      repository.ProductRepository
	presentations repository.PresentationRepository
	writer        *catalog.Writer
	codec         ports.SpreadsheetCodec
	cache         ports.CatalogCache
	metrics       ports.Metrics
	log           zerolog.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	branches repository.BranchRepository,
	products repository.ProductRepository,
	presentations repository.PresentationRepository,
	writer *catalog.Writer,
	codec ports.SpreadsheetCodec,
	cache ports.CatalogCache,
	metrics ports.Metrics,
	log zerolog.Logger,
) *ImportUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &ImportUseCase{
		branches:      branches,
		products:      products,
		presentations: presentations,
		writer:        writer,
		codec:         codec,
		cache:         cache,
		metrics:       metrics,
		log:           log,
	}
}

// FromBranch copia todos los productos activos de la sucursal origen a la destino con stock 0,
// clonando sus presentaciones (acepta el formato antiguo name/unit).
func (uc *ImportUseCase) FromBranch(ctx context.Context, scope authz.Scope, in dto.ImportFromBranchRequest) (*dto.ImportFromBranchResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, ""); err != nil {
		return nil, err
	}
	if in.SourceBranchID == "" || in.TargetBranchID == "" {
		return nil, fmt.Errorf("%w: las sucursales origen y destino son requeridas", domain.ErrInvalidInput)
	}
	if in.SourceBranchID == in.TargetBranchID {
		return nil, fmt.Errorf("%w: no puedes importar a la misma sucursal", domain.ErrInvalidInput)
	}
	if _, err := catalog.BranchInScope(ctx, uc.branches, scope, in.SourceBranchID); err != nil {
		return nil, err
	}
	if _, err := catalog.BranchInScope(ctx, uc.branches, scope, in.TargetBranchID); err != nil {
		return nil, err
	}

	products, err := uc.products.ListActiveByBranch(ctx, in.SourceBranchID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: la sucursal origen no tiene productos activos", domain.ErrInvalidInput)
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	byProduct, err := uc.presentations.ListActiveByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &dto.ImportFromBranchResponse{TotalProducts: len(products), Errors: []string{}}
	now := time.Now()
	for _, src := range products {
		p := &entity.Product{
			ID:              uuid.New().String(),
			BranchID:        in.TargetBranchID,
			Name:            src.Name,
			Description:     src.Description,
			Brand:           src.Brand,
			Barcode:         src.Barcode,
			SKU:             src.SKU,
			Expiration:      src.Expiration,
			Cost:            src.Cost,
			Price:           src.Price,
			Bonification:    src.Bonification,
			IsActive:        true,
			CreatedByUserID: scope.UserID,
			CreatedAt:       now,
		}
		if err := uc.writer.Create(ctx, p, domaincatalog.CloneForImport(byProduct[src.ID])); err != nil {
			out.ErrorCount++
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %s", src.Name, userMessage(err)))
			continue
		}
		out.ImportedCount++
	}

	uc.finishBatch(ctx, scope, "branch", out.ImportedCount, out.ErrorCount)
	return out, nil
}

// FromSpreadsheet importa productos desde la primera hoja de un archivo Excel. La primera fila son los
// encabezados; las filas vacías se ignoran y las inválidas se reportan como "Fila N: ...".
func (uc *ImportUseCase) FromSpreadsheet(ctx context.Context, scope authz.Scope, branchID, filename string, content []byte) (*dto.ImportFromExcelResponse, error) {
	if err := authz.RequireRole(scope, authz.BusinessAdmins, branchID); err != nil {
		return nil, err
	}
	if _, err := catalog.BranchInScope(ctx, uc.branches, scope, branchID); err != nil {
		return nil, err
	}
	if !spreadsheetExtensions[strings.ToLower(filepath.Ext(filename))] {
		return nil, fmt.Errorf("%w: el archivo debe ser Excel (.xlsx o .xlsm)", domain.ErrInvalidInput)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: el archivo está vacío", domain.ErrInvalidInput)
	}

	rows, err := uc.codec.Parse(content)
	if err != nil {
		uc.log.Warn().Err(err).Str("branch_id", branchID).Str("filename", filename).Msg("archivo de importación ilegible")
		return nil, fmt.Errorf("%w: no se pudo leer el archivo Excel", domain.ErrInvalidInput)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: el archivo debe tener encabezados y al menos una fila de datos", domain.ErrInvalidInput)
	}
	columns, err := domaincatalog.IndexHeaders(rows[0])
	if err != nil {
		return nil, err
	}

	out := &dto.ImportFromExcelResponse{TotalRows: len(rows) - 1, Errors: []string{}}
	for i, row := range rows[1:] {
		// fila 1 = encabezados
		rowNumber := i + 2
		if domaincatalog.IsEmptyRow(row) {
			continue
		}
		if err := uc.importRow(ctx, scope, branchID, columns, row); err != nil {
			out.ErrorCount++
			name := ""
			var rowErr *domaincatalog.RowError
			if errors.As(err, &rowErr) {
				name = rowErr.Name
			}
			out.Errors = append(out.Errors, domaincatalog.RowMessage(rowNumber, name, userMessage(err)))
			continue
		}
		out.ImportedCount++
	}

	uc.finishBatch(ctx, scope, "spreadsheet", out.ImportedCount, out.ErrorCount)
	return out, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, scope authz.Scope, branchID string, columns domaincatalog.ColumnIndex, row []string) error {
	in, err := domaincatalog.ParseRow(columns, row)
	if err != nil {
		return err
	}
	stock := in.Stock
	if stock < 0 {
		stock = 0
	}
	p := &entity.Product{
		ID:              uuid.New().String(),
		BranchID:        branchID,
		Name:            in.Name,
		Description:     in.Description,
		Brand:           in.Brand,
		Barcode:         in.Barcode,
		SKU:             in.SKU,
		Expiration:      in.Expiration,
		Cost:            in.Cost,
		Price:           in.Price,
		Stock:           stock,
		Bonification:    in.Bonification,
		IsActive:        true,
		CreatedByUserID: scope.UserID,
		CreatedAt:       time.Now(),
	}
	if err := uc.writer.Create(ctx, p, in.Presentations); err != nil {
		return &domaincatalog.RowError{Name: in.Name, Msg: userMessage(err)}
	}
	return nil
}

func (uc *ImportUseCase) finishBatch(ctx context.Context, scope authz.Scope, source string, imported, failed int) {
	uc.metrics.ImportItems(source, imported, failed)
	if imported > 0 {
		uc.cache.Invalidate(ctx, scope.BusinessID)
	}
	uc.log.Info().
		Str("source", source).
		Str("business_id", scope.BusinessID).
		Int("imported", imported).
		Int("failed", failed).
		Msg("importación de productos")
}

// userMessage texto de un error para los reportes por ítem; los errores de infraestructura no se exponen.
func userMessage(err error) string {
	var rowErr *domaincatalog.RowError
	if errors.As(err, &rowErr) {
		return rowErr.Msg
	}
	for _, known := range []error{domain.ErrInvalidInput, domain.ErrPartialWrite, domain.ErrDuplicate} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return "error interno al crear el producto"
}
