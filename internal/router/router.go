package router

import (
	"time"

	"github.com/JamLaMin/rsw-webapp/internal/config"
	"github.com/JamLaMin/rsw-webapp/internal/handler"
	"github.com/JamLaMin/rsw-webapp/internal/middleware"
	"github.com/JamLaMin/rsw-webapp/internal/model"
	"github.com/JamLaMin/rsw-webapp/internal/repository"
	"github.com/JamLaMin/rsw-webapp/internal/service"
	"github.com/JamLaMin/rsw-webapp/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	r.Use(middleware.Metrics())

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewCatalogService(productRepo, rdb)
	saleSvc := service.NewSaleService(saleRepo, registerRepo, catalogSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)
	r.GET("/metrics", middleware.MetricsHandler())
	r.POST("/auth/login", middleware.LoginRateLimiter(), authH.Login)

	// Protected routes — any authenticated POS user
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	posRole := middleware.RequireRole(model.RoleAdmin, model.RoleCashier)
	api := r.Group("", jwtMW, posRole)
	{
		api.GET("/products", productsH.List)

		api.POST("/sales/open", salesH.Open)
		api.GET("/sales/:id", salesH.Get)
		api.POST("/sales/:id/items", salesH.AddItem)
		api.POST("/sales/:id/pay-cash", salesH.PayCash)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
