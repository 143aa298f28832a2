package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	_ "github.com/marko-code-lab/noiddea/docs"
	"github.com/marko-code-lab/noiddea/internal/application/access"
	"github.com/marko-code-lab/noiddea/internal/application/auth"
	"github.com/marko-code-lab/noiddea/internal/application/catalog"
	"github.com/marko-code-lab/noiddea/internal/application/inventory"
	"github.com/marko-code-lab/noiddea/internal/application/ports"
	"github.com/marko-code-lab/noiddea/internal/application/usecase"
	"github.com/marko-code-lab/noiddea/internal/infrastructure/cache"
	"github.com/marko-code-lab/noiddea/internal/infrastructure/identity"
	"github.com/marko-code-lab/noiddea/internal/infrastructure/metrics"
	infrapdf "github.com/marko-code-lab/noiddea/internal/infrastructure/pdf"
	"github.com/marko-code-lab/noiddea/internal/infrastructure/postgres"
	"github.com/marko-code-lab/noiddea/internal/infrastructure/spreadsheet"
	httpRouter "github.com/marko-code-lab/noiddea/internal/interfaces/http"
	"github.com/marko-code-lab/noiddea/pkg/config"
	"github.com/marko-code-lab/noiddea/pkg/logger"
)

// @title                       Noiddea API
// @version                     1.0
// @description                 Inventario multi-negocio: negocios, sucursales, personal, catálogo y traslados de stock.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo Bearer
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	businessRepo := postgres.NewBusinessRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	presentationRepo := postgres.NewPresentationRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	identityGateway := identity.NewPasswordGateway(pool, 0)
	resolver := access.NewResolver(membershipRepo)

	// Métricas: sin METRICS_ENABLED no hay /metrics ni observador de requests.
	var (
		engineMetrics  ports.Metrics = ports.NopMetrics{}
		observer       httpRouter.RequestObserver
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheus()
		engineMetrics = prom
		observer = prom
		metricsHandler = prom.Handler()
	}

	// Caché de listados: opcional, solo con REDIS_URL.
	var catalogCache ports.CatalogCache = ports.NopCatalogCache{}
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		catalogCache = cache.NewRedisCatalogCache(rdb, cfg.Redis.TTL, log.Component("cache"))
	}

	writer := catalog.NewWriter(productRepo, presentationRepo, engineMetrics, log.Component("catalog"))
	codec := spreadsheet.NewExcelCodec()

	authUC := auth.NewAuthUseCase(
		identityGateway, userRepo, businessRepo, membershipRepo, resolver, engineMetrics,
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		log.Component("auth"),
	)
	businessUC := usecase.NewBusinessUseCase(businessRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo)
	staffUC := usecase.NewStaffUseCase(
		identityGateway, userRepo, branchRepo, membershipRepo, txRunner, engineMetrics, log.Component("staff"),
	)
	productUC := catalog.NewProductUseCase(branchRepo, productRepo, presentationRepo, writer, catalogCache, log.Component("catalog"))
	presentationUC := catalog.NewPresentationUseCase(branchRepo, productRepo, presentationRepo, catalogCache)
	transferUC := inventory.NewTransferUseCase(
		branchRepo, productRepo, presentationRepo, writer, catalogCache, engineMetrics,
		log.Component("transfer"), cfg.Transfer.MaxAttempts,
	)
	importUC := inventory.NewImportUseCase(
		branchRepo, productRepo, presentationRepo, writer, codec, catalogCache, engineMetrics, log.Component("import"),
	)
	exportUC := inventory.NewExportUseCase(
		businessRepo, branchRepo, productRepo, presentationRepo, codec, infrapdf.NewInventoryReport(),
	)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	purchaseUC := inventory.NewPurchaseUseCase(
		branchRepo, productRepo, presentationRepo, supplierRepo, purchaseRepo, catalogCache, engineMetrics,
		log.Component("purchase"), cfg.Transfer.MaxAttempts,
	)
	dashboardUC := usecase.NewDashboardUseCase(branchRepo, productRepo, membershipRepo, purchaseRepo)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:     cfg.App.Name,
		Log:      log.Component("http"),
		Observer: observer,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Noiddea API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		BusinessUC:     businessUC,
		BranchUC:       branchUC,
		StaffUC:        staffUC,
		ProductUC:      productUC,
		PresentationUC: presentationUC,
		TransferUC:     transferUC,
		ImportUC:       importUC,
		ExportUC:       exportUC,
		PurchaseUC:     purchaseUC,
		SupplierUC:     supplierUC,
		DashboardUC:    dashboardUC,
		Resolver:       resolver,
		JWTSecret:      cfg.JWT.Secret,
		ServiceName:    cfg.App.Name,
		MetricsHandler: metricsHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
