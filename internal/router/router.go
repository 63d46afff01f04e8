package router

import (
	"time"

	"signrecipes/internal/config"
	"signrecipes/internal/handler"
	"signrecipes/internal/infra"
	"signrecipes/internal/middleware"
	"signrecipes/internal/repository"
	"signrecipes/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
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

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	processRepo := repository.NewProcessRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogSvc := service.NewCatalogService(productRepo, materialRepo, processRepo)
	validator := service.NewRecipeValidator(materialRepo, processRepo)
	recipeSvc := service.NewRecipeService(recipeRepo, productRepo, materialRepo, processRepo, sessionRepo, validator)
	hierarchySvc := service.NewHierarchyService(processRepo)
	searchSvc := service.NewSearchService(productRepo, materialRepo, processRepo)
	cleanupSvc := service.NewCleanupService(sessionRepo, recipeRepo)
	statsSvc := service.NewStatsService(productRepo, materialRepo, processRepo, recipeRepo, sessionRepo)

	retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour

	// ── Handlers ─────────────────────────────────────────────────────────────
	catalogH := handler.NewCatalogHandler(catalogSvc)
	recipesH := handler.NewRecipesHandler(recipeSvc, cfg.PDFStoragePath, infra.GenerateJobSheetPDF)
	hierarchyH := handler.NewHierarchyHandler(hierarchySvc)
	searchH := handler.NewSearchHandler(searchSvc, rdb)
	cleanupH := handler.NewCleanupHandler(cleanupSvc, retention)
	statsH := handler.NewStatsHandler(statsSvc)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", healthH.Check)

	v1 := r.Group("/v1")
	{
		v1.POST("/catalog/import", catalogH.Import)
		v1.GET("/products", catalogH.ListProducts)
		v1.GET("/products/:code", catalogH.GetProduct)
		v1.DELETE("/products/:code", recipesH.DeleteProduct)
		v1.GET("/materials/:code", catalogH.GetMaterial)
		v1.GET("/processes/:code", catalogH.GetProcess)
		v1.GET("/processes/:code/hierarchy", hierarchyH.Resolve)

		v1.POST("/recipes/:product_code", recipesH.Replace)
		v1.POST("/recipes/:product_code/lines", recipesH.Append)
		v1.GET("/recipes/:product_code", recipesH.Get)
		v1.GET("/recipes/:product_code/export", recipesH.Export)
		v1.GET("/recipes/:product_code/job-sheet", recipesH.JobSheet)

		v1.GET("/search", searchH.Search)
		v1.GET("/stats", statsH.Get)
		v1.POST("/cleanup/run", cleanupH.Run)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
