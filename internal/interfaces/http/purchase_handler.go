package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/application/inventory"
	"github.com/marko-code-lab/noiddea/internal/application/usecase"
)

// PurchaseHandler proveedores, órdenes de compra y panel (protegido).
type PurchaseHandler struct {
	suppliers *usecase.SupplierUseCase
	purchases *inventory.PurchaseUseCase
	dashboard *usecase.DashboardUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(suppliers *usecase.SupplierUseCase, purchases *inventory.PurchaseUseCase, dashboard *usecase.DashboardUseCase) *PurchaseHandler {
	return &PurchaseHandler{suppliers: suppliers, purchases: purchases, dashboard: dashboard}
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        search            query  string  false  "Nombre parcial (máximo 10 resultados)"
// @Param        include_inactive  query  bool    false  "Incluir desactivados"
// @Success      200  {array}   dto.SupplierResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/suppliers [get]
func (h *PurchaseHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.suppliers.List(c.UserContext(), GetScope(c), c.Query("search"), c.QueryBool("include_inactive", false))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// GetSupplier godoc
// @Summary      Obtener proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *PurchaseHandler) GetSupplier(c *fiber.Ctx) error {
	out, err := h.suppliers.Get(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "name, phone, email, address"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *PurchaseHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.suppliers.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, out)
}

// UpdateSupplier godoc
// @Summary      Actualizar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del proveedor"
// @Param        body  body  dto.UpdateSupplierRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [put]
func (h *PurchaseHandler) UpdateSupplier(c *fiber.Ctx) error {
	var in dto.UpdateSupplierRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.suppliers.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// DeactivateSupplier godoc
// @Summary      Desactivar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id}/deactivate [post]
func (h *PurchaseHandler) DeactivateSupplier(c *fiber.Ctx) error {
	return h.setSupplierActive(c, false)
}

// ActivateSupplier godoc
// @Summary      Activar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id}/activate [post]
func (h *PurchaseHandler) ActivateSupplier(c *fiber.Ctx) error {
	return h.setSupplierActive(c, true)
}

func (h *PurchaseHandler) setSupplierActive(c *fiber.Ctx, active bool) error {
	out, err := h.suppliers.SetActive(c.UserContext(), GetScope(c), c.Params("id"), active)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// ListPurchases godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal"
// @Param        status     query  string  false  "pending, approved, received o cancelled"
// @Param        page       query  int     false  "Página"   default(1)
// @Param        limit      query  int     false  "Límite"   default(50)
// @Success      200        {object}  dto.PurchaseListResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) ListPurchases(c *fiber.Ctx) error {
	in := dto.PurchaseListRequest{
		PageRequest: dto.PageRequest{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 50)},
		BranchID:    c.Query("branch_id"),
		Status:      c.Query("status"),
	}
	if err := validateStruct(&in); err != nil {
		return err
	}
	out, err := h.purchases.List(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// PurchaseStats godoc
// @Summary      Resumen de compras por estado
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal"
// @Success      200        {object}  dto.PurchaseStatsResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/purchases/stats [get]
func (h *PurchaseHandler) PurchaseStats(c *fiber.Ctx) error {
	out, err := h.purchases.Stats(c.UserContext(), GetScope(c), c.Query("branch_id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// GetPurchase godoc
// @Summary      Obtener compra con sus renglones
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	out, err := h.purchases.Get(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// CreatePurchase godoc
// @Summary      Registrar compra
// @Description  Queda pendiente; el stock se suma recién al recibirla.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "branch_id, supplier_id, items"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.purchases.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, out)
}

// ApprovePurchase godoc
// @Summary      Aprobar compra pendiente
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/approve [post]
func (h *PurchaseHandler) ApprovePurchase(c *fiber.Ctx) error {
	out, err := h.purchases.Approve(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// ReceivePurchase godoc
// @Summary      Recibir compra aprobada
// @Description  Suma al stock cantidad × unidades de cada presentación comprada.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.ReceivePurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) ReceivePurchase(c *fiber.Ctx) error {
	out, err := h.purchases.Receive(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// CancelPurchase godoc
// @Summary      Cancelar compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "ID de la compra"
// @Param        body  body  dto.CancelPurchaseRequest  false  "Motivo"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/cancel [post]
func (h *PurchaseHandler) CancelPurchase(c *fiber.Ctx) error {
	var in dto.CancelPurchaseRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return err
		}
	}
	out, err := h.purchases.Cancel(c.UserContext(), GetScope(c), c.Params("id"), in.Reason)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// DashboardStats godoc
// @Summary      Resumen del panel
// @Description  Negocio completo para owner/admin; la sucursal propia para manager y cajero.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats [get]
func (h *PurchaseHandler) DashboardStats(c *fiber.Ctx) error {
	out, err := h.dashboard.Stats(c.UserContext(), GetScope(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}
