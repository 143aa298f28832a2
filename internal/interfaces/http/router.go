package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/marko-code-lab/noiddea/internal/application/auth"
	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/inventory"
	"github.com/marko-code-lab/noiddea/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	BusinessUC     *usecase.BusinessUseCase
	BranchUC       *usecase.BranchUseCase
	StaffUC        *usecase.StaffUseCase
	ProductUC      *catalog.ProductUseCase
	PresentationUC *catalog.PresentationUseCase
	TransferUC     *inventory.TransferUseCase
	ImportUC       *inventory.ImportUseCase
	ExportUC       *inventory.ExportUseCase
	PurchaseUC     *inventory.PurchaseUseCase
	SupplierUC     *usecase.SupplierUseCase
	DashboardUC    *usecase.DashboardUseCase
	Resolver       ScopeResolver
	JWTSecret      string
	ServiceName    string
	// MetricsHandler se monta en /metrics cuando no es nil.
	MetricsHandler http.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas: Bearer Token y alcance resuelto en cada request
	protected := api.Group("", AuthMiddleware(deps.JWTSecret), ScopeMiddleware(deps.Resolver))
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/businesses", authHandler.CreateBusiness)

	businessHandler := NewBusinessHandler(deps.BusinessUC, deps.BranchUC)
	protected.Get("/business", businessHandler.Get)
	protected.Put("/business", businessHandler.Update)
	protected.Get("/branches", businessHandler.ListBranches)
	protected.Post("/branches", businessHandler.CreateBranch)
	protected.Put("/branches/:id", businessHandler.UpdateBranch)

	staffHandler := NewStaffHandler(deps.StaffUC)
	staff := protected.Group("/staff")
	staff.Get("/", staffHandler.List)
	staff.Post("/admins", staffHandler.CreateAdmin)
	staff.Post("/managers", staffHandler.CreateManager)
	staff.Post("/cashiers", staffHandler.CreateCashier)
	staff.Put("/:userId", staffHandler.Update)
	staff.Post("/:userId/reset-benefit", staffHandler.ResetBenefit)
	staff.Delete("/:userId", staffHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC, deps.PresentationUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Post("/bulk-delete", productHandler.BulkDelete)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Put("/:id/presentations", productHandler.UpdatePresentations)
	products.Delete("/:id", productHandler.Delete)

	presentations := protected.Group("/presentations")
	presentations.Put("/:id", productHandler.UpdatePresentation)
	presentations.Post("/:id/deactivate", productHandler.DeactivatePresentation)
	presentations.Post("/:id/activate", productHandler.ActivatePresentation)

	inventoryHandler := NewInventoryHandler(deps.TransferUC, deps.ImportUC, deps.ExportUC)
	inv := protected.Group("/inventory")
	inv.Post("/transfers", inventoryHandler.Transfer)
	inv.Post("/imports/branch", inventoryHandler.ImportFromBranch)
	inv.Post("/imports/excel", inventoryHandler.ImportFromExcel)
	inv.Get("/template", inventoryHandler.Template)
	inv.Get("/export", inventoryHandler.Export)
	inv.Get("/report", inventoryHandler.Report)

	purchaseHandler := NewPurchaseHandler(deps.SupplierUC, deps.PurchaseUC, deps.DashboardUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", purchaseHandler.ListSuppliers)
	suppliers.Post("/", purchaseHandler.CreateSupplier)
	suppliers.Get("/:id", purchaseHandler.GetSupplier)
	suppliers.Put("/:id", purchaseHandler.UpdateSupplier)
	suppliers.Post("/:id/activate", purchaseHandler.ActivateSupplier)
	suppliers.Post("/:id/deactivate", purchaseHandler.DeactivateSupplier)

	purchases := protected.Group("/purchases")
	purchases.Get("/", purchaseHandler.ListPurchases)
	purchases.Post("/", purchaseHandler.CreatePurchase)
	purchases.Get("/stats", purchaseHandler.PurchaseStats)
	purchases.Get("/:id", purchaseHandler.GetPurchase)
	purchases.Post("/:id/approve", purchaseHandler.ApprovePurchase)
	purchases.Post("/:id/cancel", purchaseHandler.CancelPurchase)
	purchases.Post("/:id/receive", purchaseHandler.ReceivePurchase)

	protected.Get("/dashboard/stats", purchaseHandler.DashboardStats)
}
