package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/dto"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	products      *catalog.ProductUseCase
	presentations *catalog.PresentationUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(products *catalog.ProductUseCase, presentations *catalog.PresentationUseCase) *ProductHandler {
	return &ProductHandler{products: products, presentations: presentations}
}

// Create godoc
// @Summary      Crear producto
// @Description  Crea el producto con su presentación "unidad" y las presentaciones adicionales.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.CreateProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.products.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.products.GetByID(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal"
// @Param        search     query  string  false  "Texto en nombre, descripción o marca"
// @Param        page       query  int     false  "Página"   default(1)
// @Param        limit      query  int     false  "Límite"   default(50)
// @Success      200        {object}  dto.ProductListResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	in := dto.ProductListRequest{
		PageRequest: dto.PageRequest{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 50)},
		BranchID:    c.Query("branch_id"),
		Search:      c.Query("search"),
	}
	if err := validateStruct(&in); err != nil {
		return err
	}
	out, err := h.products.List(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.products.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// UpdatePresentations godoc
// @Summary      Reemplazar presentaciones
// @Description  Reemplaza las presentaciones adicionales; la "unidad" se conserva.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del producto"
// @Param        body  body  dto.UpdatePresentationsRequest  true  "Presentaciones"
// @Success      200   {array}   dto.PresentationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/presentations [put]
func (h *ProductHandler) UpdatePresentations(c *fiber.Ctx) error {
	var in dto.UpdatePresentationsRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.products.UpdatePresentations(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar producto (lógico)
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkDelete godoc
// @Summary      Eliminar productos en lote (lógico)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteProductsRequest  true  "ids"
// @Success      200   {object}  dto.DeleteProductsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products/bulk-delete [post]
func (h *ProductHandler) BulkDelete(c *fiber.Ctx) error {
	var in dto.DeleteProductsRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.products.DeleteMany(c.UserContext(), GetScope(c), in.IDs)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// UpdatePresentation godoc
// @Summary      Editar una presentación
// @Tags         presentations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la presentación"
// @Param        body  body  dto.UpdatePresentationRequest  true  "variant, units, price"
// @Success      200   {object}  dto.PresentationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/presentations/{id} [put]
func (h *ProductHandler) UpdatePresentation(c *fiber.Ctx) error {
	var in dto.UpdatePresentationRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.presentations.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// DeactivatePresentation godoc
// @Summary      Desactivar presentación
// @Tags         presentations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la presentación"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/presentations/{id}/deactivate [post]
func (h *ProductHandler) DeactivatePresentation(c *fiber.Ctx) error {
	if err := h.presentations.Deactivate(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ActivatePresentation godoc
// @Summary      Activar presentación
// @Tags         presentations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la presentación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/presentations/{id}/activate [post]
func (h *ProductHandler) ActivatePresentation(c *fiber.Ctx) error {
	if err := h.presentations.Activate(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
