package router

import (
	"time"

	"fabrictrack/internal/config"
	"fabrictrack/internal/handler"
	"fabrictrack/internal/middleware"
	"fabrictrack/internal/repository"
	"fabrictrack/internal/service"
	"fabrictrack/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	lowStock := decimal.NewFromFloat(cfg.LowStockThreshold)

	// ── Repositories ─────────────────────────────────────────────────────────
	fabricRepo := repository.NewFabricRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	ledgerSvc := service.NewLedgerService(fabricRepo, movementRepo)
	catalogSvc := service.NewCatalogService(fabricRepo, movementRepo, ledgerSvc)
	orderSvc := service.NewOrderService(fabricRepo, movementRepo, saleRepo, ledgerSvc, dispatcher, lowStock)
	purchaseSvc := service.NewPurchaseService(fabricRepo, movementRepo, purchaseRepo)
	analyticsSvc := service.NewAnalyticsService(fabricRepo, movementRepo, lowStock)
	reportSvc := service.NewReportService(catalogSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	fabricsH := handler.NewFabricsHandler(catalogSvc)
	transactionsH := handler.NewTransactionsHandler(ledgerSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	salesH := handler.NewSalesHandler(orderSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		fabrics := v1.Group("/fabrics")
		{
			fabrics.POST("", fabricsH.Create)
			fabrics.GET("", fabricsH.List)
			fabrics.GET("/search", fabricsH.Search)
			fabrics.GET("/:id", fabricsH.Get)
			fabrics.PUT("/:id", fabricsH.Update)
			fabrics.DELETE("/:id", fabricsH.Delete)
		}

		// Storefront view of the catalog
		v1.GET("/products", fabricsH.Products)

		txns := v1.Group("/transactions")
		{
			txns.POST("", transactionsH.Append)
			txns.GET("", transactionsH.List)
			txns.GET("/grouped", transactionsH.Grouped)
		}

		v1.POST("/orders", ordersH.Commit)

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Commit)
			sales.GET("", salesH.List)
			sales.PUT("/:id", salesH.Update)
			sales.DELETE("/:id", salesH.Delete)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", purchasesH.Commit)
			purchases.GET("", purchasesH.List)
			purchases.PUT("/:id", purchasesH.Update)
			purchases.DELETE("/:id", purchasesH.Delete)
		}

		v1.GET("/analytics", analyticsH.Dashboard)
		v1.GET("/reports/stock.xlsx", reportsH.StockXLSX)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
