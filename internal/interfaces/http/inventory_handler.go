package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/inventory"
	"github.com/marko-code-lab/noiddea/internal/domain"
)

// maxSpreadsheetSize tamaño máximo del archivo de importación.
const maxSpreadsheetSize = 10 << 20

// InventoryHandler traslados, importaciones y archivos del inventario (protegido).
type InventoryHandler struct {
	transfers *inventory.TransferUseCase
	imports   *inventory.ImportUseCase
	exports   *inventory.ExportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(transfers *inventory.TransferUseCase, imports *inventory.ImportUseCase, exports *inventory.ExportUseCase) *InventoryHandler {
	return &InventoryHandler{transfers: transfers, imports: imports, exports: exports}
}

// Transfer godoc
// @Summary      Trasladar stock entre sucursales
// @Description  Descuenta del producto origen y suma al destino (existente, encontrado por nombre/código o creado).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "product_id, source_branch_id, target_branch_id, quantity"
// @Success      200   {object}  dto.TransferStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.transfers.Transfer(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// ImportFromBranch godoc
// @Summary      Importar catálogo desde otra sucursal
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportFromBranchRequest  true  "source_branch_id, target_branch_id"
// @Success      200   {object}  dto.ImportFromBranchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/imports/branch [post]
func (h *InventoryHandler) ImportFromBranch(c *fiber.Ctx) error {
	var in dto.ImportFromBranchRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.imports.FromBranch(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// ImportFromExcel godoc
// @Summary      Importar productos desde Excel
// @Description  La primera fila son los encabezados de la plantilla. Las filas inválidas se reportan sin abortar.
// @Tags         inventory
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        file       formData  file    true  "Archivo .xlsx"
// @Param        branch_id  formData  string  true  "Sucursal destino"
// @Success      200        {object}  dto.ImportFromExcelResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/inventory/imports/excel [post]
func (h *InventoryHandler) ImportFromExcel(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: el archivo es requerido (campo \"file\")", domain.ErrInvalidInput)
	}
	if header.Size > maxSpreadsheetSize {
		return fmt.Errorf("%w: el archivo supera los 10 MB", domain.ErrInvalidInput)
	}
	f, err := header.Open()
	if err != nil {
		return fmt.Errorf("abrir archivo subido: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("leer archivo subido: %w", err)
	}

	out, err := h.imports.FromSpreadsheet(c.UserContext(), GetScope(c), c.FormValue("branch_id"), header.Filename, content)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Template godoc
// @Summary      Descargar plantilla de importación
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/inventory/template [get]
func (h *InventoryHandler) Template(c *fiber.Ctx) error {
	file, err := h.exports.Template()
	if err != nil {
		return err
	}
	return sendFile(c, file)
}

// Export godoc
// @Summary      Exportar productos de una sucursal a Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        branch_id  query  string  true  "Sucursal"
// @Success      200        {file}    file
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/inventory/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	file, err := h.exports.Export(c.UserContext(), GetScope(c), c.Query("branch_id"))
	if err != nil {
		return err
	}
	return sendFile(c, file)
}

// Report godoc
// @Summary      Reporte PDF de inventario valorizado
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        branch_id  query  string  true  "Sucursal"
// @Success      200        {file}    file
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/inventory/report [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	file, err := h.exports.Report(c.UserContext(), GetScope(c), c.Query("branch_id"))
	if err != nil {
		return err
	}
	return sendFile(c, file)
}
