package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/usecase"
)

// BusinessHandler negocio del usuario y sus sucursales.
type BusinessHandler struct {
	businesses *usecase.BusinessUseCase
	branches   *usecase.BranchUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(businesses *usecase.BusinessUseCase, branches *usecase.BranchUseCase) *BusinessHandler {
	return &BusinessHandler{businesses: businesses, branches: branches}
}

// Get godoc
// @Summary      Obtener el negocio del usuario
// @Tags         business
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BusinessResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/business [get]
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	out, err := h.businesses.Get(c.UserContext(), GetScope(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Update godoc
// @Summary      Actualizar el negocio
// @Description  El nombre no se puede cambiar.
// @Tags         business
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateBusinessRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BusinessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/business [put]
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBusinessRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.businesses.Update(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// ListBranches godoc
// @Summary      Listar sucursales visibles
// @Tags         branches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BranchResponse
// @Router       /api/branches [get]
func (h *BusinessHandler) ListBranches(c *fiber.Ctx) error {
	out, err := h.branches.List(c.UserContext(), GetScope(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// CreateBranch godoc
// @Summary      Crear sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBranchRequest  true  "Datos de la sucursal"
// @Success      201   {object}  dto.BranchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/branches [post]
func (h *BusinessHandler) CreateBranch(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.branches.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, out)
}

// UpdateBranch godoc
// @Summary      Actualizar sucursal
// @Tags         branches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la sucursal"
// @Param        body  body  dto.UpdateBranchRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BranchResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/branches/{id} [put]
func (h *BusinessHandler) UpdateBranch(c *fiber.Ctx) error {
	var in dto.UpdateBranchRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.branches.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}
