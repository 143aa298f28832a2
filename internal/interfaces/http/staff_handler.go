package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/usecase"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
)

// StaffHandler alta, edición y baja del personal.
type StaffHandler struct {
	uc *usecase.StaffUseCase
}

// NewStaffHandler construye el handler.
func NewStaffHandler(uc *usecase.StaffUseCase) *StaffHandler {
	return &StaffHandler{uc: uc}
}

// List godoc
// @Summary      Listar personal de sucursales
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal"
// @Success      200  {array}   dto.StaffResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/staff [get]
func (h *StaffHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetScope(c), c.Query("branch_id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// CreateAdmin godoc
// @Summary      Crear administrador del negocio
// @Tags         staff
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStaffRequest  true  "email, password, name"
// @Success      201   {object}  dto.StaffResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/staff/admins [post]
func (h *StaffHandler) CreateAdmin(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateAdmin)
}

// CreateManager godoc
// @Summary      Crear gerente de sucursal
// @Tags         staff
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStaffRequest  true  "email, password, name, branch_id"
// @Success      201   {object}  dto.StaffResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/staff/managers [post]
func (h *StaffHandler) CreateManager(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateManager)
}

// CreateCashier godoc
// @Summary      Crear cajero de sucursal
// @Tags         staff
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStaffRequest  true  "email, password, name, branch_id"
// @Success      201   {object}  dto.StaffResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/staff/cashiers [post]
func (h *StaffHandler) CreateCashier(c *fiber.Ctx) error {
	return h.create(c, h.uc.CreateCashier)
}

type createStaffFunc func(ctx context.Context, scope authz.Scope, in dto.CreateStaffRequest) (*dto.StaffResponse, error)

func (h *StaffHandler) create(c *fiber.Ctx, fn createStaffFunc) error {
	var in dto.CreateStaffRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := fn(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, out)
}

// Update godoc
// @Summary      Editar usuario de sucursal
// @Tags         staff
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        userId  path  string                  true  "ID del usuario"
// @Param        body    body  dto.UpdateStaffRequest  true  "name, phone, role, benefit"
// @Success      200     {object}  dto.StaffResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/staff/{userId} [put]
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStaffRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetScope(c), c.Params("userId"), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// ResetBenefit godoc
// @Summary      Reiniciar el beneficio acumulado
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200     {object}  dto.StaffResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/staff/{userId}/reset-benefit [post]
func (h *StaffHandler) ResetBenefit(c *fiber.Ctx) error {
	out, err := h.uc.ResetBenefit(c.UserContext(), GetScope(c), c.Params("userId"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar usuario del personal
// @Description  Borra concesiones y perfil en una transacción y luego la cuenta de identidad.
// @Tags         staff
// @Security     Bearer
// @Param        userId  path  string  true  "ID del usuario"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/staff/{userId} [delete]
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetScope(c), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
