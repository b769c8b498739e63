package router

import (
	"time"

	"frozenshop/internal/authz"
	"frozenshop/internal/config"
	"frozenshop/internal/handler"
	"frozenshop/internal/infra"
	"frozenshop/internal/middleware"
	"frozenshop/internal/repository"
	"frozenshop/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure pieces built in main and shared with the
// worker pool. Publisher and Dispatcher may be nil.
type Deps struct {
	MailBreaker *infra.CircuitBreaker
	Dispatcher  service.JobDispatcher
	Publisher   service.EventPublisher
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(600, time.Minute)) // 600 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewProductCache(rdb, time.Duration(cfg.ProductCacheTTLMinutes)*time.Minute)
	receipts := infra.NewReceiptRenderer(cfg.PDFStoragePath)

	// ── Repositories ─────────────────────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	areaRepo := repository.NewShippingAreaRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(adminRepo, cfg)
	settingsSvc := service.NewSettingsService(settingRepo)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo, cache)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, areaRepo, settingsSvc, cache)
	checkoutSvc := service.NewCheckoutService(productRepo, orderRepo, areaRepo, inventorySvc, settingsSvc,
		deps.Dispatcher, deps.Publisher, cache, cfg.CountryCode)
	trackingSvc := service.NewTrackingService(orderRepo, settingsSvc, receipts)
	orderSvc := service.NewOrderService(orderRepo, inventorySvc, deps.Dispatcher, deps.Publisher, cache)
	categorySvc := service.NewCategoryService(categoryRepo, productRepo, cache)
	productSvc := service.NewProductService(productRepo, categoryRepo, inventorySvc, cache)
	areaSvc := service.NewShippingAreaService(areaRepo)
	contactSvc := service.NewContactService(contactRepo)
	dashboardSvc := service.NewDashboardService(orderRepo, productRepo, contactRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	catalogH := handler.NewCatalogHandler(catalogSvc, settingsSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc, trackingSvc)
	contactH := handler.NewContactHandler(contactSvc)
	authH := handler.NewAuthHandler(authSvc, handler.CookieOptions{
		MaxAgeDays: cfg.RememberMeDays,
		Secure:     cfg.Env == "production",
	})
	adminsH := handler.NewAdminsHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)
	areasH := handler.NewShippingAreasHandler(areaSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, deps.MailBreaker))

	// Storefront (public)
	api := r.Group("/api")
	{
		api.GET("/products", catalogH.ListProducts)
		api.GET("/products/:slug", catalogH.GetProduct)
		api.GET("/categories", catalogH.ListCategories)
		api.GET("/shipping-areas", catalogH.ListShippingAreas)
		api.GET("/settings/public", catalogH.PublicSettings)
		api.POST("/cart/summary", catalogH.CartSummary)

		api.POST("/checkout", middleware.SubmissionRateLimiter(), checkoutH.Submit)
		api.GET("/orders/:number", checkoutH.Track)
		api.GET("/orders/:number/receipt", checkoutH.Receipt)
		api.POST("/contact", middleware.SubmissionRateLimiter(), contactH.Submit)
	}

	// Admin auth (public)
	auth := r.Group("/api/admin/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/remember", middleware.LoginRateLimiter(), authH.Remember)
	}

	// Protected routes: capabilities declared per group
	admin := r.Group("/api/admin", middleware.AdminAuth(authSvc))
	{
		admin.POST("/auth/logout", authH.Logout)
		admin.GET("/auth/me", authH.Me)
		admin.GET("/dashboard", dashboardH.Summary)

		cats := admin.Group("/categories", middleware.RequireCapability(authz.ManageCatalog))
		{
			cats.GET("", categoriesH.List)
			cats.POST("", categoriesH.Create)
			cats.PUT("/:id", categoriesH.Update)
			cats.PATCH("/:id/active", categoriesH.SetActive)
			cats.DELETE("/:id", categoriesH.Delete)
		}

		prods := admin.Group("/products", middleware.RequireCapability(authz.ManageCatalog))
		{
			prods.GET("", productsH.List)
			prods.GET("/:id", productsH.Get)
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.PATCH("/:id/active", productsH.SetActive)
			prods.PATCH("/:id/featured", productsH.SetFeatured)
			prods.DELETE("/:id", productsH.Delete)
			prods.POST("/:id/images", productsH.AddImage)
			prods.PATCH("/:id/images/:image_id/primary", productsH.SetPrimaryImage)
			prods.DELETE("/:id/images/:image_id", productsH.DeleteImage)
		}

		inv := admin.Group("/inventory", middleware.RequireCapability(authz.ManageInventory))
		{
			inv.GET("/movements", inventoryH.Movements)
			inv.GET("/low-stock", inventoryH.LowStock)
			inv.POST("/:id/adjust", inventoryH.Adjust)
			inv.PUT("/:id/stock", inventoryH.Set)
			inv.GET("/:id/verify", inventoryH.VerifyLedger)
		}

		areas := admin.Group("/shipping-areas", middleware.RequireCapability(authz.ManageShipping))
		{
			areas.GET("", areasH.List)
			areas.POST("", areasH.Create)
			areas.PUT("/:id", areasH.Update)
			areas.PATCH("/:id/active", areasH.SetActive)
			areas.DELETE("/:id", areasH.Delete)
		}

		orders := admin.Group("/orders", middleware.RequireCapability(authz.ManageOrders))
		{
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.PATCH("/:id/status", ordersH.UpdateStatus)
			orders.PATCH("/:id/payment", ordersH.UpdatePayment)
			orders.PATCH("/:id/notes", ordersH.UpdateNotes)
		}

		settings := admin.Group("/settings", middleware.RequireCapability(authz.ManageSettings))
		{
			settings.GET("", settingsH.List)
			settings.PUT("", settingsH.Update)
		}

		msgs := admin.Group("/messages", middleware.RequireCapability(authz.ReadMessages))
		{
			msgs.GET("", contactH.List)
			msgs.GET("/:id", contactH.Get)
			msgs.PATCH("/:id/read", contactH.MarkRead)
			msgs.DELETE("/:id", contactH.Delete)
		}

		admins := admin.Group("/admins", middleware.RequireCapability(authz.ManageAdmins))
		{
			admins.GET("", adminsH.List)
			admins.POST("", adminsH.Create)
			admins.PUT("/:id", adminsH.Update)
			admins.PATCH("/:id/active", adminsH.SetActive)
		}
	}

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
