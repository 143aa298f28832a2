package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/domain"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	domaincatalog "github.com/marko-code-lab/noiddea/internal/domain/catalog"
	"github.com/marko-code-lab/noiddea/internal/domain/entity"
	"github.com/marko-code-lab/noiddea/internal/domain/repository"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
	sheetName       = "Productos"
)

// ExportUseCase plantilla de importación, exportación del catálogo de una sucursal y reporte PDF de stock.
type ExportUseCase struct {
	businesses    repository.BusinessRepository
	branches      repository.BranchRepository
	products      repository.ProductRepository
	presentations repository.PresentationRepository
	codec         ports.SpreadsheetCodec
	report        ports.InventoryReportRenderer
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	businesses repository.BusinessRepository,
	branches repository.BranchRepository,
	products repository.ProductRepository,
	presentations repository.PresentationRepository,
	codec ports.SpreadsheetCodec,
	report ports.InventoryReportRenderer,
) *ExportUseCase {
	return &ExportUseCase{
		businesses:    businesses,
		branches:      branches,
		products:      products,
		presentations: presentations,
		codec:         codec,
		report:        report,
	}
}

// Template plantilla vacía con los encabezados canónicos y una fila de ejemplo.
func (uc *ExportUseCase) Template() (*dto.FileResponse, error) {
	example := []string{
		"Coca-Cola 600ml", "Gaseosa", "Coca-Cola", "7702004003508", "CC-600",
		"3.00", "5.00", "10", "0", "2026-12-31", "pack:6:25|caja:24:90",
	}
	content, err := uc.codec.Serialize(sheetName, [][]string{domaincatalog.TemplateHeaders, example})
	if err != nil {
		return nil, fmt.Errorf("generar plantilla: %w", err)
	}
	return &dto.FileResponse{Filename: "plantilla-productos.xlsx", ContentType: xlsxContentType, Content: content}, nil
}

// Export productos activos de la sucursal en el mismo formato de la plantilla, así el archivo se puede
// volver a importar en otra sucursal.
func (uc *ExportUseCase) Export(ctx context.Context, scope authz.Scope, branchID string) (*dto.FileResponse, error) {
	branch, products, err := uc.load(ctx, scope, branchID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	byProduct, err := uc.presentations.ListActiveByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(products)+1)
	rows = append(rows, domaincatalog.TemplateHeaders)
	for _, p := range products {
		expiration := ""
		if p.Expiration != nil {
			expiration = p.Expiration.Format("2006-01-02")
		}
		rows = append(rows, []string{
			p.Name,
			p.Description,
			p.Brand,
			p.Barcode,
			p.SKU,
			p.Cost.String(),
			p.Price.String(),
			strconv.FormatInt(p.Stock, 10),
			p.Bonification.String(),
			expiration,
			domaincatalog.FormatPresentationsCell(byProduct[p.ID]),
		})
	}
	content, err := uc.codec.Serialize(sheetName, rows)
	if err != nil {
		return nil, fmt.Errorf("exportar productos: %w", err)
	}
	return &dto.FileResponse{
		Filename:    "reporte-productos-" + slug(branch.Name) + ".xlsx",
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

// Report PDF con el stock valorizado de la sucursal.
func (uc *ExportUseCase) Report(ctx context.Context, scope authz.Scope, branchID string) (*dto.FileResponse, error) {
	branch, products, err := uc.load(ctx, scope, branchID)
	if err != nil {
		return nil, err
	}
	business, err := uc.businesses.GetByID(ctx, branch.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, fmt.Errorf("%w: negocio no encontrado", domain.ErrNotFound)
	}
	content, err := uc.report.RenderInventory(business, branch, products)
	if err != nil {
		return nil, fmt.Errorf("generar reporte de inventario: %w", err)
	}
	return &dto.FileResponse{
		Filename:    "inventario-" + slug(branch.Name) + ".pdf",
		ContentType: pdfContentType,
		Content:     content,
	}, nil
}

// load verifica acceso de lectura a la sucursal y trae sus productos activos.
func (uc *ExportUseCase) load(ctx context.Context, scope authz.Scope, branchID string) (*entity.Branch, []*entity.Product, error) {
	if err := authz.RequireRole(scope, authz.CatalogRemovers, branchID); err != nil {
		return nil, nil, err
	}
	branch, err := catalog.BranchInScope(ctx, uc.branches, scope, branchID)
	if err != nil {
		return nil, nil, err
	}
	products, err := uc.products.ListActiveByBranch(ctx, branchID)
	if err != nil {
		return nil, nil, err
	}
	return branch, products, nil
}

// slug nombre apto para archivo: minúsculas, espacios a guiones, solo letras, dígitos y guiones.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "sucursal"
	}
	return b.String()
}
